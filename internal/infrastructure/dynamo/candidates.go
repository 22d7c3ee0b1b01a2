package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/voter-api/internal/domain"
)

// CandidateRepo manages session candidates.
// PK: session_code, SK: candidate_id.
type CandidateRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCandidateRepo(client *dynamodb.Client, tableName string) *CandidateRepo {
	return &CandidateRepo{client: client, tableName: tableName}
}

func (r *CandidateRepo) Put(ctx context.Context, c *domain.Candidate) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CandidateRepo) Get(ctx context.Context, sessionCode, candidateID string) (*domain.Candidate, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldSessionCode, sessionCode, fieldCandidateID, candidateID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("candidate not found: %w", domain.ErrNotFound)
	}
	var c domain.Candidate
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListBySession returns the session's candidates in creation order (ULID sort key).
func (r *CandidateRepo) ListBySession(ctx context.Context, sessionCode string) ([]domain.Candidate, error) {
	return queryAll[domain.Candidate](ctx, r.client, partitionQuery(r.tableName, fieldSessionCode, sessionCode))
}

func (r *CandidateRepo) Delete(ctx context.Context, sessionCode, candidateID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldSessionCode, sessionCode, fieldCandidateID, candidateID),
	})
	return err
}

// DeleteBySession removes every candidate under sessionCode.
func (r *CandidateRepo) DeleteBySession(ctx context.Context, sessionCode string) error {
	cands, err := r.ListBySession(ctx, sessionCode)
	if err != nil {
		return err
	}
	keys := make([]map[string]types.AttributeValue, 0, len(cands))
	for _, c := range cands {
		keys = append(keys, compositeKey(fieldSessionCode, sessionCode, fieldCandidateID, c.CandidateID))
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}
