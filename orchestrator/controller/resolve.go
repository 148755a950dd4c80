package controller

import (
	"context"

	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
)

// resolveProvenance resolves every package's provenance. Resolution
// failures are logged and carried as Unknown rather than aborting the run.
func resolveProvenance(ctx context.Context, c *Controller) (State, error) {
	for _, p := range c.packages {
		prov, err := c.Resolver.Resolve(ctx, p, c.Priority)
		if err != nil {
			zlog.Info(ctx).
				Err(err).
				Str("package", p.ID).
				Msg("package-provenance resolution failed; carrying package with unknown provenance")
			prov = srcscan.UnknownProvenance
		}
		c.provOf[p.ID] = prov
	}
	return ResolveNested, nil
}

// resolveNested resolves, for every package with a Known provenance, its
// nested tree, and collects every provenance seen across every tree into
// c.provByCanon.
func resolveNested(ctx context.Context, c *Controller) (State, error) {
	cache := make(map[string]srcscan.NestedProvenance)
	for _, p := range c.packages {
		prov := c.provOf[p.ID]
		if !prov.Known() {
			continue
		}
		canon := prov.Canonical()
		nested, ok := cache[canon]
		if !ok {
			var err error
			nested, err = c.NestedResolver.ResolveNested(ctx, prov)
			if err != nil {
				zlog.Info(ctx).
					Err(err).
					Str("provenance", canon).
					Msg("nested-provenance resolution failed; treating as having no sub-repositories")
				nested, _ = srcscan.NewNestedProvenance(prov, nil)
			}
			cache[canon] = nested
		}
		c.pkgNested[p.ID] = nested
		for _, pv := range nested.All() {
			c.provByCanon[pv.Canonical()] = pv
		}
	}
	return ReadCache, nil
}
