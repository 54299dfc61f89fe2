package handler

import (
	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/dto"
	"github.com/VladmirB/sigmah/internal/store"
)

// DedupTable holds the shared objects of one query call. Rows that
// reference the same partner or admin entity id receive the same pointer.
//
// A table must not outlive the call it was created for, and is not safe for
// concurrent use.
type DedupTable struct {
	partners      map[int]*dto.Partner
	adminEntities map[int]*dto.AdminEntity
}

// NewDedupTable creates an empty table.
func NewDedupTable() *DedupTable {
	return &DedupTable{
		partners:      make(map[int]*dto.Partner),
		adminEntities: make(map[int]*dto.AdminEntity),
	}
}

// Partner returns the shared partner for id, creating it on first use.
func (t *DedupTable) Partner(id int, name string) *dto.Partner {
	if p, ok := t.partners[id]; ok {
		return p
	}
	p := &dto.Partner{ID: id, Name: name}
	t.partners[id] = p
	return p
}

// AdminEntity returns the shared entity for e.ID, mapping e only on first
// use.
func (t *DedupTable) AdminEntity(e domain.AdminEntity, mapper dto.Mapper) *dto.AdminEntity {
	if cached, ok := t.adminEntities[e.ID]; ok {
		return cached
	}
	mapped := mapper.AdminEntity(e)
	t.adminEntities[e.ID] = mapped
	return mapped
}

// Len returns the number of distinct partners and admin entities held.
func (t *DedupTable) Len() (partners, adminEntities int) {
	return len(t.partners), len(t.adminEntities)
}

// ModelBinder builds dto.Site values from streamed store rows.
type ModelBinder struct {
	table  *DedupTable
	mapper dto.Mapper
	sites  []*dto.Site
	byID   map[int]*dto.Site
}

var _ store.ProjectionBinder = (*ModelBinder)(nil)

// NewModelBinder creates a binder that owns table for its lifetime.
func NewModelBinder(table *DedupTable, mapper dto.Mapper) *ModelBinder {
	return &ModelBinder{
		table:  table,
		mapper: mapper,
		sites:  []*dto.Site{},
		byID:   make(map[int]*dto.Site),
	}
}

func (b *ModelBinder) NewInstance(row store.SiteRow) {
	site := &dto.Site{
		ID:           row.ID,
		ActivityID:   row.ActivityID,
		DatabaseID:   row.DatabaseID,
		Date1:        row.Date1,
		Date2:        row.Date2,
		LocationName: row.LocationName,
		LocationAxe:  row.LocationAxe,
		Status:       row.Status,
		X:            row.X,
		Y:            row.Y,
		Comments:     row.Comments,
		Partner:      b.table.Partner(row.PartnerID, row.PartnerName),
	}
	b.sites = append(b.sites, site)
	b.byID[site.ID] = site
}

func (b *ModelBinder) SetAdminEntity(siteID int, entity domain.AdminEntity) {
	if site, ok := b.byID[siteID]; ok {
		site.SetAdminEntity(entity.LevelID, b.table.AdminEntity(entity, b.mapper))
	}
}

func (b *ModelBinder) SetAttributeValue(siteID, attributeID int, value bool) {
	if site, ok := b.byID[siteID]; ok {
		site.SetAttributeValue(attributeID, value)
	}
}

func (b *ModelBinder) SetIndicatorValue(siteID, indicatorID int, value float64) {
	if site, ok := b.byID[siteID]; ok {
		site.SetIndicatorValue(indicatorID, value)
	}
}

// Sites returns the bound sites in result order. Never nil.
func (b *ModelBinder) Sites() []*dto.Site {
	return b.sites
}
