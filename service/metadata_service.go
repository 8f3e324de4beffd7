package service

import (
	"fmt"

	"github.com/pustakalab/pustaka-be/types"
)

// sourceTypeMap fixes how each submission source type translates into
// epistemic metadata. Curators pick the source type; authority level and
// epistemic origin are always derived, never supplied by callers.
var sourceTypeMap = map[types.SourceType]types.EpistemicMetadata{
	types.SourceCommunity: {
		AuthorityLevel:  types.AuthoritySituated,
		EpistemicOrigin: types.OriginCommunityArchive,
	},
	types.SourceAcademic: {
		AuthorityLevel:  types.AuthorityAcademic,
		EpistemicOrigin: types.OriginAcademicResearch,
	},
	types.SourceMedia: {
		AuthorityLevel:  types.AuthorityMedia,
		EpistemicOrigin: types.OriginMediaDiscourse,
	},
	types.SourceArchival: {
		AuthorityLevel:  types.AuthorityArchival,
		EpistemicOrigin: types.OriginInstitutionalRecord,
	},
	types.SourceGeneral: {
		AuthorityLevel:  types.AuthoritySituated,
		EpistemicOrigin: types.OriginCommunityArchive,
	},
}

// DeriveEpistemic maps a source type to its epistemic metadata. The mapping
// is total over the valid source types and rejects everything else, so two
// documents with the same source type always carry identical metadata.
func DeriveEpistemic(sourceType types.SourceType) (types.EpistemicMetadata, error) {
	meta, ok := sourceTypeMap[sourceType]
	if !ok {
		return types.EpistemicMetadata{}, fmt.Errorf("%w: %q", types.ErrInvalidSourceType, sourceType)
	}
	return meta, nil
}
