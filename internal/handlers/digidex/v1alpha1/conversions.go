package v1alpha1

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
)

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func boolField(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return false
	}
	return v.GetBoolValue()
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return s, nil
}

func stringList(in []string) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func entityMap(e *entities.Entity) map[string]interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"name":        e.Name,
		"img":         e.Img,
		"level":       e.Level,
		"is_favorite": e.IsFavorite,
	}
}

func recordMap(r *entities.CatalogRecord) map[string]interface{} {
	out := map[string]interface{}{
		"id":         r.ID,
		"name":       r.Name,
		"images":     stringList(r.Images),
		"levels":     stringList(r.Levels),
		"attributes": stringList(r.Attributes),
		"types":      stringList(r.Types),
		"fields":     stringList(r.Fields),
	}
	if r.ReleaseDate != nil {
		out["release_date"] = *r.ReleaseDate
	}

	descriptions := make([]interface{}, 0, len(r.Descriptions))
	for _, d := range r.Descriptions {
		descriptions = append(descriptions, map[string]interface{}{
			"origin":   d.Origin,
			"language": d.Language,
			"text":     d.Text,
		})
	}
	out["descriptions"] = descriptions
	return out
}

func resolveResponse(name string, output *resolver.ResolveOutput) map[string]interface{} {
	resp := map[string]interface{}{
		"name":         name,
		"found":        output.Found(),
		"tier":         string(output.Tier),
		"pages_walked": output.PagesWalked,
	}
	if output.Found() {
		resp["candidate"] = output.Candidate
		resp["similarity"] = output.Similarity
		resp["record"] = recordMap(output.Record)
	}
	return resp
}
