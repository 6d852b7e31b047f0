// Package proposal defines proposal families, size tiers and digest sections.
package proposal
