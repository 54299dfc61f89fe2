// Package harness runs GetSites scenarios against a seeded store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: activity_paging
//	description: "Pages through activity 1 by start date"
//	fixture: ../../../testutil/testdata/sites.yaml
//	steps:
//	  - name: page1
//	    user: 1
//	    request: {activity_id: 1, sort_info: {field: date1, dir: DESC}, limit: 2}
//	    expect:
//	      site_ids: [4, 5]
//	      total: 6
//	      offset: 0
//	assertions:
//	  - type: same_total
//	    steps: [page1, page2]
//
// The fixture path is relative to the scenario file. Requests use the JSON
// field names of command.GetSites.
//
// # Expectations
//
// Every field of expect is optional. site_ids compares the page in order,
// total and offset compare the result, and error expects the request to fail
// with that command error code.
//
// # Assertion Types
//
//   - contains: the page of step includes site
//   - excludes: the page of step does not include site
//   - same_total: every listed step reports the same total
//   - shared_partners: sites of one partner on the page of step share one
//     partner value
//
// # Deterministic Testing
//
// Each run seeds a fresh in-memory database and uses a fixed request id, so
// traces are identical across runs and suitable for golden comparison.
package harness
