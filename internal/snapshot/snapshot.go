// Package snapshot sources the technical snapshot for one equity from two
// tiers: computed provider data first, narrative extraction second. The
// merge is per-field and the provider always wins.
package snapshot

import "github.com/Ankur-Sura/Nivesh-Copilot/internal/models"

// Merge overlays extracted values onto the provider snapshot. A provider
// field, once set, is never replaced; extraction only fills gaps.
func Merge(provider, extracted models.Snapshot) models.Snapshot {
	merged := provider
	mergedFields := merged.Fields()
	extractedFields := extracted.Fields()

	for i := range mergedFields {
		if *mergedFields[i].Slot == nil && *extractedFields[i].Slot != nil {
			v := **extractedFields[i].Slot
			*mergedFields[i].Slot = &v
		}
	}

	return merged
}
