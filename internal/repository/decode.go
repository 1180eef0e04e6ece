package repository

import (
	"fmt"
	"log/slog"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"eapmetrics/internal/model"
	"eapmetrics/internal/scoring"
)

// decodeResponse converts a stored document into a response whose answers
// hold only float64, string, bool and []interface{} values.
// A present answers field that is not a document is a structural error.
func decodeResponse(raw bson.Raw) (*model.Response, error) {
	r := &model.Response{
		ID:     idString(raw.Lookup("_id")),
		Branch: branchValue(raw.Lookup("branch")),
	}
	r.SurveyID, _ = raw.Lookup("surveyId").StringValueOK()
	r.CompanyID, _ = raw.Lookup("companyId").StringValueOK()
	if t, ok := raw.Lookup("submittedAt").TimeOK(); ok {
		r.SubmittedAt = t.UTC()
	}

	if demo := raw.Lookup("demographics"); demo.Type == bson.TypeEmbeddedDocument {
		var d model.Demographics
		if err := demo.Unmarshal(&d); err != nil {
			slog.Warn("ignoring malformed demographics",
				slog.String("responseId", r.ID),
				slog.String("error", err.Error()))
		} else {
			r.Demographics = &d
		}
	}

	answers := raw.Lookup("answers")
	switch answers.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		r.Answers = model.Answers{}
	case bson.TypeEmbeddedDocument:
		a, err := normalizeAnswers(answers.Document())
		if err != nil {
			return nil, &scoring.StructuralError{ResponseID: r.ID, Reason: err.Error()}
		}
		r.Answers = a
	default:
		return nil, &scoring.StructuralError{
			ResponseID: r.ID,
			Reason:     fmt.Sprintf("answers is %s, not a document", answers.Type),
		}
	}
	return r, nil
}

func normalizeAnswers(doc bson.Raw) (model.Answers, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, err
	}
	out := make(model.Answers, len(elems))
	for _, e := range elems {
		if v, ok := normalizeValue(e.Value()); ok {
			out[e.Key()] = v
		}
	}
	return out, nil
}

// normalizeValue reports false for null and for types no field can hold.
// Array elements that cannot be normalized become nil so the whole list is
// rejected downstream rather than silently shortened.
func normalizeValue(v bson.RawValue) (interface{}, bool) {
	switch v.Type {
	case bson.TypeDouble:
		return v.Double(), true
	case bson.TypeInt32:
		return float64(v.Int32()), true
	case bson.TypeInt64:
		return float64(v.Int64()), true
	case bson.TypeDecimal128:
		f, err := strconv.ParseFloat(v.Decimal128().String(), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case bson.TypeString:
		return v.StringValue(), true
	case bson.TypeBoolean:
		return v.Boolean(), true
	case bson.TypeArray:
		vals, err := v.Array().Values()
		if err != nil {
			return nil, false
		}
		out := make([]interface{}, 0, len(vals))
		for _, item := range vals {
			nv, ok := normalizeValue(item)
			if !ok {
				nv = nil
			}
			out = append(out, nv)
		}
		return out, true
	default:
		return nil, false
	}
}

func idString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeString:
		return v.StringValue()
	case 0:
		return ""
	default:
		return v.String()
	}
}

// branchValue keeps non-string branches visible as unknown values so the
// classifier excludes them instead of treating them as missing.
func branchValue(v bson.RawValue) model.Branch {
	if s, ok := v.StringValueOK(); ok {
		return model.Branch(s)
	}
	if v.Type == 0 || v.Type == bson.TypeNull {
		return ""
	}
	return model.Branch(v.String())
}
