// Package store keeps digest records in a SQL database (sqlite by default,
// postgres and mysql by DSN) so artifacts can be served without rereading
// the corpus. Each run replaces the stored records of the tiers it produced.
package store
