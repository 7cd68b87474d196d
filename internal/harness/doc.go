// Package harness runs list render scenarios against seeded fixtures.
//
// A scenario is a YAML file naming a fixture (a file, inline pages or
// both), an optional CUE config, and a sequence of list tags to render:
//
//	name: inline-intersection
//	description: Trees that are not extinct, inline
//	fixture: fixtures/forest.yaml
//	config: |
//	  maxResultCount: 50
//	renders:
//	  - name: not-extinct
//	    input: |
//	      category=Trees
//	      notcategory=Extinct
//	      mode=inline
//	    expect:
//	      contains: ["Oak"]
//	      not_contains: ["Dodo"]
//
// Every scenario runs in a fresh in-memory store with sequential render
// IDs, so two runs produce byte-identical snapshots. Snapshots are compared
// with golden files: by goldie in tests, by `dpl test` on the command line.
package harness
