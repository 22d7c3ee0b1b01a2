package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/voter-api/internal/domain"
)

// StudentVoteRepo stores the one global vote each registered voter may cast.
// PK: voter_id.
type StudentVoteRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewStudentVoteRepo(client *dynamodb.Client, tableName string) *StudentVoteRepo {
	return &StudentVoteRepo{client: client, tableName: tableName}
}

// Create records v, failing with ErrConflict when the voter already voted.
func (r *StudentVoteRepo) Create(ctx context.Context, v *domain.StudentVote) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal student vote: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldVoterID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("vote already recorded: %w", domain.ErrConflict)
	}
	return err
}

func (r *StudentVoteRepo) List(ctx context.Context) ([]domain.StudentVote, error) {
	return scanAll[domain.StudentVote](ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}
