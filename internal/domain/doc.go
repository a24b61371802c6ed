// Package domain contains the core domain entities and value objects for taxonsync.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Rank]: A recognized taxonomic level (kingdom ... scientificname)
//   - [NameSet] and [RankNames]: Normalized, deduplicated names per rank
//   - [TaxonTable]: A snapshot of the remote taxon table (name -> row id)
//   - [Job]: A unit of upload work ([BatchJob], [NameJob], or the [Stop] sentinel)
//   - [TaxonLocations]: The final name -> foreign key column projection
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
