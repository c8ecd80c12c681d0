package services

import (
	"context"

	"github.com/cch1/uuid-primary-key/pkg/fixtures"
)

// Fixture attributes understood by the record inserter. parent_id is
// usually produced by a parent_label reference.
const (
	fixtureName   = "name"
	fixtureParent = "parent_id"
)

type fixtureInserter struct {
	svc *RecordService
}

// Fixtures returns an Inserter that creates each fixture through Create, so
// fixture identifiers pass the same validation as any supplied identifier.
// Only UUID sets ("_fixture: {uuid: true}") can load: integer fixture ids
// fail that validation as "can't be parsed".
func (s *RecordService) Fixtures() fixtures.Inserter {
	return fixtureInserter{svc: s}
}

func (f fixtureInserter) InsertFixture(ctx context.Context, fx fixtures.Fixture) error {
	id := fx.ID
	p := CreateParams{ID: &id, Name: fx.Attributes[fixtureName]}
	if parent, ok := fx.Attributes[fixtureParent]; ok {
		p.ParentID = &parent
	}
	_, err := f.svc.Create(ctx, p)
	return err
}
