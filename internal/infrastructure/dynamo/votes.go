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

// VoteRepo manages session votes.
// PK: session_code, SK: voter_id, so a voter holds at most one item per session.
type VoteRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVoteRepo(client *dynamodb.Client, tableName string) *VoteRepo {
	return &VoteRepo{client: client, tableName: tableName}
}

// Create records v, failing with ErrConflict when the voter already voted in the session.
func (r *VoteRepo) Create(ctx context.Context, v *domain.Vote) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#sk)"),
		ExpressionAttributeNames: map[string]string{"#sk": fieldVoterID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("vote already recorded: %w", domain.ErrConflict)
	}
	return err
}

func (r *VoteRepo) ListBySession(ctx context.Context, sessionCode string) ([]domain.Vote, error) {
	return queryAll[domain.Vote](ctx, r.client, partitionQuery(r.tableName, fieldSessionCode, sessionCode))
}

// DeleteByCandidate removes the session's votes that reference candidateID.
func (r *VoteRepo) DeleteByCandidate(ctx context.Context, sessionCode, candidateID string) error {
	q := partitionQuery(r.tableName, fieldSessionCode, sessionCode)
	q.FilterExpression = aws.String("#c = :c")
	q.ExpressionAttributeNames["#c"] = fieldCandidateID
	q.ExpressionAttributeValues[":c"] = &types.AttributeValueMemberS{Value: candidateID}
	votes, err := queryAll[domain.Vote](ctx, r.client, q)
	if err != nil {
		return err
	}
	return r.deleteAll(ctx, votes)
}

// DeleteBySession removes every vote under sessionCode.
func (r *VoteRepo) DeleteBySession(ctx context.Context, sessionCode string) error {
	votes, err := r.ListBySession(ctx, sessionCode)
	if err != nil {
		return err
	}
	return r.deleteAll(ctx, votes)
}

func (r *VoteRepo) deleteAll(ctx context.Context, votes []domain.Vote) error {
	keys := make([]map[string]types.AttributeValue, 0, len(votes))
	for _, v := range votes {
		keys = append(keys, compositeKey(fieldSessionCode, v.SessionCode, fieldVoterID, v.VoterID))
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}
