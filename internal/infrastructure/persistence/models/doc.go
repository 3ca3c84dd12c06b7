// Package models contains the GORM persistence models for the gateway's tables.
// Domain entities in internal/domain stay free of ORM tags; each model here
// carries the table mapping plus ToDomain / FromDomain conversions.
//
// The schema itself is owned by the SQL migrations in internal/infrastructure/migration.
// Tags on these models mirror that schema so AutoMigrate can build an equivalent
// database for tests.
package models
