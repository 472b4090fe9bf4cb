package recent

import (
	"context"

	"storefront-web/internal/model"
	"storefront-web/internal/storage"
)

const Limit = 10

// Viewed is the list of recently viewed products of the visitor, most recent
// first. Only the fields a product card needs are kept.
type Viewed struct {
	local *storage.Bucket
	key   string
}

func New(local *storage.Bucket, key string) *Viewed {
	return &Viewed{local: local, key: key}
}

func (v *Viewed) List(ctx context.Context) []model.Product {
	var entries []model.Product
	if !v.local.Load(ctx, v.key, &entries) {
		return []model.Product{}
	}
	return entries
}

// Others lists the recently viewed products except excludeID.
func (v *Viewed) Others(ctx context.Context, excludeID string) []model.Product {
	all := v.List(ctx)
	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out
}

// Record moves p to the front of the list, keeping at most Limit entries.
func (v *Viewed) Record(ctx context.Context, p model.Product) error {
	entries := []model.Product{{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		OldPrice: p.OldPrice,
		Image:    p.Image,
	}}
	for _, e := range v.List(ctx) {
		if e.ID != p.ID {
			entries = append(entries, e)
		}
	}
	if len(entries) > Limit {
		entries = entries[:Limit]
	}
	return v.local.Save(ctx, v.key, entries)
}
