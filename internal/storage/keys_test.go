package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildVersionKeyDeterministic(t *testing.T) {
	scopeID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	versionID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	k1 := BuildVersionKey(scopeID, nil, versionID, "sow.docx")
	k2 := BuildVersionKey(scopeID, nil, versionID, "sow.docx")
	assert.Equal(t, k1, k2)
	assert.Equal(t, "scopes/11111111-1111-1111-1111-111111111111/versions/22222222-2222-2222-2222-222222222222/sow.docx", k1)
}

func TestBuildVersionKeyPropertySegment(t *testing.T) {
	scopeID := uuid.New()
	versionID := uuid.New()
	joinID := uuid.New()

	library := BuildVersionKey(scopeID, nil, versionID, "sow.docx")
	property := BuildVersionKey(scopeID, &joinID, versionID, "sow.docx")

	assert.NotEqual(t, library, property)
	assert.NotContains(t, library, "properties/")
	assert.Contains(t, property, "properties/"+joinID.String()+"/")
}

func TestBuildVersionKeyEveryArgumentChangesKey(t *testing.T) {
	scopeID := uuid.New()
	versionID := uuid.New()
	joinID := uuid.New()

	base := BuildVersionKey(scopeID, &joinID, versionID, "sow.docx")

	otherScope := BuildVersionKey(uuid.New(), &joinID, versionID, "sow.docx")
	assert.NotEqual(t, base, otherScope)

	otherJoin := uuid.New()
	assert.NotEqual(t, base, BuildVersionKey(scopeID, &otherJoin, versionID, "sow.docx"))

	assert.NotEqual(t, base, BuildVersionKey(scopeID, &joinID, uuid.New(), "sow.docx"))
	assert.NotEqual(t, base, BuildVersionKey(scopeID, &joinID, versionID, "other.docx"))
}

func TestBuildExportKey(t *testing.T) {
	exportID := uuid.New()
	key := BuildExportKey("version-history", exportID, "history.xlsx")

	assert.True(t, strings.HasPrefix(key, "exports/version-history/"))
	assert.Contains(t, key, exportID.String())
	assert.True(t, strings.HasSuffix(key, "/history.xlsx"))
}
