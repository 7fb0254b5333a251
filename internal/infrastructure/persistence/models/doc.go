// Package models contains the GORM models for the feed store. They carry the
// table mapping and JSON column encoding so the domain types stay free of
// ORM tags.
package models
