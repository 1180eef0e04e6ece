package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eapmetrics/internal/model"
)

// SurveyRepo handles MongoDB operations for survey instances
type SurveyRepo interface {
	Create(ctx context.Context, survey *model.SurveyInstance) (string, error)
	GetByID(ctx context.Context, id string) (*model.SurveyInstance, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.SurveyInstance, error)
	// Previous returns the company's latest instance started before the given one
	Previous(ctx context.Context, survey *model.SurveyInstance) (*model.SurveyInstance, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey instance repository
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{
		collection: db.Collection("survey_instances"),
	}
}

func (r *surveyRepo) Create(ctx context.Context, survey *model.SurveyInstance) (string, error) {
	survey.CreatedAt = time.Now().UTC()
	if survey.StartDate.IsZero() {
		survey.StartDate = survey.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, survey)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	survey.ID = oid.Hex()
	return survey.ID, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, id string) (*model.SurveyInstance, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// not an id this store could have issued
		return nil, nil
	}

	var survey model.SurveyInstance
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	survey.ID = id
	return &survey, nil
}

func (r *surveyRepo) ListByCompany(ctx context.Context, companyID string) ([]*model.SurveyInstance, error) {
	filter := bson.M{}
	if companyID != "" {
		filter["companyId"] = companyID
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := []*model.SurveyInstance{}
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) Previous(ctx context.Context, survey *model.SurveyInstance) (*model.SurveyInstance, error) {
	filter := bson.M{
		"companyId": survey.CompanyID,
		"startDate": bson.M{"$lt": survey.StartDate},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: -1}})

	var prev model.SurveyInstance
	err := r.collection.FindOne(ctx, filter, opts).Decode(&prev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}

func (r *surveyRepo) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"isActive": active}})
	return err
}
