package layout

import (
	"fmt"

	"graft/internal/frontend"
)

// MapProvider serves layouts from a map keyed by cursor USR. Tests and
// the synthetic demo unit register layouts up front.
type MapProvider struct {
	byUSR map[string]*RecordLayout
}

func NewMapProvider() *MapProvider {
	return &MapProvider{byUSR: make(map[string]*RecordLayout)}
}

// Set registers the layout for a record cursor.
func (m *MapProvider) Set(cursor frontend.Cursor, l *RecordLayout) {
	m.byUSR[cursor.USR()] = l
}

func (m *MapProvider) RecordLayout(cursor frontend.Cursor) (*RecordLayout, error) {
	if l, ok := m.byUSR[cursor.USR()]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("layout: no layout registered for %q", cursor.USR())
}
