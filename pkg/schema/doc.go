// Package schema describes every graph node kind a registry exposes.
//
// [Generate] walks the concrete node classes of a [registry.Registry] and
// emits one [NodeSchema] per class: display name, category, description,
// flags and the properties a document node of that kind carries. The
// result is sorted by (category, display name) and contains no timestamps,
// so two runs over the same registry produce byte-identical JSON.
//
// [Cache] holds the generated schema for the life of the process and
// persists it through a [cache.Cache], keyed by [CacheKey]. A stored schema
// whose engine version differs from the registry's host version is
// regenerated.
//
// [BuildCatalog] produces the lighter node catalog listing.
package schema
