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

// SessionRepo provides typed DynamoDB operations for the sessions table.
// PK: code. GSI owner_id-created_at-index lists a user's sessions by creation time.
type SessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSessionRepo(client *dynamodb.Client, tableName string) *SessionRepo {
	return &SessionRepo{client: client, tableName: tableName}
}

// Create inserts s, failing with ErrConflict when the code is already taken.
func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldCode},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("session code taken: %w", domain.ErrConflict)
	}
	return err
}

func (r *SessionRepo) Get(ctx context.Context, code string) (*domain.Session, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCode, code),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	var s domain.Session
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns the owner's sessions, newest first.
func (r *SessionRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error) {
	return queryAll[domain.Session](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexOwnerCreatedAt),
		KeyConditionExpression:    aws.String("#o = :o"),
		ExpressionAttributeNames:  map[string]string{"#o": fieldOwnerID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": &types.AttributeValueMemberS{Value: ownerID}},
		ScanIndexForward:          aws.Bool(false),
	})
}

func (r *SessionRepo) SetPublicResults(ctx context.Context, code string, public bool) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldPublicResults: public})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldCode
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldCode, code),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, code string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCode, code),
	})
	return err
}
