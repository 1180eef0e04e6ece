package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eapmetrics/internal/model"
)

// CompanyRepo handles MongoDB operations for companies
type CompanyRepo interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
	// EmployeeCount returns 0 for unknown companies
	EmployeeCount(ctx context.Context, companyID string) (int, error)
	Upsert(ctx context.Context, company *model.Company) error
}

type companyRepo struct {
	collection *mongo.Collection
}

// NewCompanyRepo creates a new company repository
func NewCompanyRepo(db *mongo.Database) CompanyRepo {
	return &companyRepo{
		collection: db.Collection("companies"),
	}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) EmployeeCount(ctx context.Context, companyID string) (int, error) {
	company, err := r.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return 0, err
	}
	return company.EmployeeCount, nil
}

func (r *companyRepo) Upsert(ctx context.Context, company *model.Company) error {
	company.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": company.ID}, company, opts)
	return err
}
