// Package models contains GORM persistence models for the tables reporting reads.
// Models carry the ORM tags and convert to domain snapshots through ToDomain,
// which validates the stored row the same way domain constructors do.
package models
