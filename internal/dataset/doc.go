// Package dataset loads record fixtures from YAML.
//
// A dataset lists the records to seed into a store and, optionally, the
// models describing their types:
//
//	name: projects
//	models:
//	  - type: project
//	    display_name: Project
//	    fields:
//	      - {name: Name, kind: string}
//	      - {name: Parent, kind: reference}
//	records:
//	  - ref: /project/1
//	    type: project
//	    fields: {Name: Alpha}
//
// Without models the built-in schema registry applies.
package dataset
