package main

import (
	"github.com/cch1/uuid-primary-key/pkg/migrator"
	"github.com/cch1/uuid-primary-key/pkg/schema"
)

// steps are the Go migrations; their DDL is rendered for the target dialect.
var steps = []migrator.Step{
	{
		Version: 2,
		Up: func(r *schema.Registry) ([]string, error) {
			col, err := r.AddColumn("records", schema.Column{
				Name:       "parent_id",
				Type:       schema.TypeUUID,
				References: &schema.ForeignKey{Table: "records", Column: "id"},
			})
			if err != nil {
				return nil, err
			}
			idx, err := r.AddIndex("records", "records_parent_id_idx", false, "parent_id")
			if err != nil {
				return nil, err
			}
			return []string{col, idx}, nil
		},
		Down: func(r *schema.Registry) ([]string, error) {
			return []string{r.DropColumn("records", "parent_id")}, nil
		},
	},
}
