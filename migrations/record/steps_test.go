package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cch1/uuid-primary-key/pkg/schema"
)

func TestSteps_Render(t *testing.T) {
	tests := []struct {
		dialect schema.Dialect
		up      []string
		down    []string
	}{
		{
			dialect: schema.Postgres,
			up: []string{
				`ALTER TABLE "records" ADD COLUMN "parent_id" UUID REFERENCES "records" ("id")`,
				`CREATE INDEX "records_parent_id_idx" ON "records" ("parent_id")`,
			},
			down: []string{`ALTER TABLE "records" DROP COLUMN "parent_id"`},
		},
		{
			dialect: schema.MySQL,
			up: []string{
				"ALTER TABLE `records` ADD COLUMN `parent_id` CHAR(36) CHARACTER SET ascii COLLATE ascii_general_ci, " +
					"ADD FOREIGN KEY (`parent_id`) REFERENCES `records` (`id`)",
				"CREATE INDEX `records_parent_id_idx` ON `records` (`parent_id`)",
			},
			down: []string{"ALTER TABLE `records` DROP COLUMN `parent_id`"},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			reg, err := schema.NewRegistry(tt.dialect)
			if err != nil {
				t.Fatalf("registry: %v", err)
			}
			up, err := steps[0].Up(reg)
			if err != nil {
				t.Fatalf("up: %v", err)
			}
			if diff := cmp.Diff(tt.up, up); diff != "" {
				t.Errorf("up (-want +got):\n%s", diff)
			}
			down, err := steps[0].Down(reg)
			if err != nil {
				t.Fatalf("down: %v", err)
			}
			if diff := cmp.Diff(tt.down, down); diff != "" {
				t.Errorf("down (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMigrationsFS_ContainsSQL(t *testing.T) {
	if _, err := MigrationsFS.ReadFile("00001_create_records.sql"); err != nil {
		t.Fatalf("expected embedded migration: %v", err)
	}
}
