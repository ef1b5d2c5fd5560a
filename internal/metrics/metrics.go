// Package metrics exposes pipeline counters via expvar for the stats
// command and ad-hoc debugging.
package metrics

import "expvar"

var (
	// ProjectsCreated counts project entities persisted across all runs of
	// this process.
	ProjectsCreated = expvar.NewInt("projectgraph_projects_created")
	// RecordsSkipped counts records dropped by validation or scope checks.
	RecordsSkipped = expvar.NewInt("projectgraph_records_skipped")
	// RecordsFailed counts records that errored past recovery.
	RecordsFailed = expvar.NewInt("projectgraph_records_failed")
	// LocationsLinked counts LOCATED_IN relationships created.
	LocationsLinked = expvar.NewInt("projectgraph_locations_linked")
	// RelationshipsCreated counts all relationships created.
	RelationshipsCreated = expvar.NewInt("projectgraph_relationships_created")
)
