package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/voter-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// PK: email.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Create inserts u, failing with ErrConflict when the email is already registered.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldEmail},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByResetToken looks a user up by an outstanding reset token via GSI.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexResetToken),
		KeyConditionExpression:    aws.String("#t = :t"),
		ExpressionAttributeNames:  map[string]string{"#t": fieldResetToken},
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": &types.AttributeValueMemberS{Value: token}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("reset token not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial update to an existing user. removes lists attributes to drop.
func (r *UserRepo) Update(ctx context.Context, email string, updates map[string]interface{}, removes ...string) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates, removes...)
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldEmail
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

// ConsumeResetToken stores passwordHash and drops the reset fields, but only while
// token is still the user's current token and unexpired at now. A stale token
// yields ErrConflict.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, email, token, passwordHash string, now time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldPasswordHash: passwordHash,
		fieldUpdatedAt:    now.UTC().Format(time.RFC3339),
	}, fieldResetToken, fieldResetTokenExpiry)
	if err != nil {
		return err
	}
	ue.Names["#tok"] = fieldResetToken
	ue.Names["#exp"] = fieldResetTokenExpiry
	ue.Values[":tok"] = &types.AttributeValueMemberS{Value: token}
	ue.Values[":now"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#tok = :tok AND #exp > :now"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("reset token no longer valid: %w", domain.ErrConflict)
	}
	return err
}
