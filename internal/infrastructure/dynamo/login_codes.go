package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/voter-api/internal/domain"
)

// LoginCodeRepo stores student login codes.
// PK: college_id. expires_at is the table's TTL attribute; DynamoDB reaps
// expired rows lazily, so callers still check expiry on read.
type LoginCodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLoginCodeRepo(client *dynamodb.Client, tableName string) *LoginCodeRepo {
	return &LoginCodeRepo{client: client, tableName: tableName}
}

// Put stores code for collegeID, replacing any earlier one.
func (r *LoginCodeRepo) Put(ctx context.Context, collegeID, code string, ttl time.Duration) error {
	item, err := attributevalue.MarshalMap(&domain.LoginCode{
		CollegeID: collegeID,
		Code:      code,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal login code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *LoginCodeRepo) Get(ctx context.Context, collegeID string) (*domain.LoginCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldCollegeID, collegeID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("login code not found: %w", domain.ErrNotFound)
	}
	var c domain.LoginCode
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *LoginCodeRepo) Delete(ctx context.Context, collegeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCollegeID, collegeID),
	})
	return err
}
