package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// BuildVersionKey computes the object-storage key for one version of a
// scope-of-work document. The key is a pure function of its inputs: identical
// arguments always yield the identical key, and changing any argument changes
// the key. The property segment appears only for property-scoped versions.
//
//	scopes/<scope>/versions/<version>/<file>
//	scopes/<scope>/properties/<propertyJoin>/versions/<version>/<file>
func BuildVersionKey(scopeID uuid.UUID, propertyJoinID *uuid.UUID, versionID uuid.UUID, fileName string) string {
	if propertyJoinID != nil {
		return fmt.Sprintf("scopes/%s/properties/%s/versions/%s/%s",
			scopeID, *propertyJoinID, versionID, fileName)
	}
	return fmt.Sprintf("scopes/%s/versions/%s/%s", scopeID, versionID, fileName)
}

// BuildExportKey computes the key under which generated XLSX exports live.
func BuildExportKey(kind string, exportID uuid.UUID, fileName string) string {
	return fmt.Sprintf("exports/%s/%s/%s", kind, exportID, fileName)
}
