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

// StudentRepo provides typed DynamoDB operations for the students roster.
// PK: id_no. Rows are provisioned by roster import; the API only flips
// registration and approval flags.
type StudentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewStudentRepo(client *dynamodb.Client, tableName string) *StudentRepo {
	return &StudentRepo{client: client, tableName: tableName}
}

// Put upserts a roster entry. Name, email and admin come from s; an existing
// row keeps its registration state.
func (r *StudentRepo) Put(ctx context.Context, s *domain.Student) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldFullName: s.FullName,
		fieldEmail:    s.Email,
		fieldAdmin:    s.Admin,
	})
	if err != nil {
		return fmt.Errorf("marshal student: %w", err)
	}
	ue.Names["#reg"] = fieldRegistered
	ue.Names["#appr"] = fieldApproved
	ue.Values[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldIDNo, s.IDNo),
		UpdateExpression:          aws.String(ue.Expr + ", #reg = if_not_exists(#reg, :false), #appr = if_not_exists(#appr, :false)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	return err
}

func (r *StudentRepo) Get(ctx context.Context, idNo string) (*domain.Student, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldIDNo, idNo),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register marks the student registered with role. It fails with ErrConflict
// when the student is already registered.
func (r *StudentRepo) Register(ctx context.Context, idNo, role, manifesto string) error {
	updates := map[string]interface{}{
		fieldRegistered: true,
		fieldRole:       role,
		fieldApproved:   false,
	}
	if role == domain.StudentRoleCandidate {
		updates[fieldManifesto] = manifesto
	}
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldIDNo
	ue.Names["#reg"] = fieldRegistered
	ue.Values[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldIDNo, idNo),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk) AND (attribute_not_exists(#reg) OR #reg = :false)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("student already registered: %w", domain.ErrConflict)
	}
	return err
}

// Approve flips approved on a registered, unapproved candidate. Anything else
// yields ErrNotFound.
func (r *StudentRepo) Approve(ctx context.Context, idNo string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldApproved: true})
	if err != nil {
		return err
	}
	ue.Names["#role"] = fieldRole
	ue.Names["#reg"] = fieldRegistered
	ue.Names["#appr"] = fieldApproved
	ue.Values[":cand"] = &types.AttributeValueMemberS{Value: domain.StudentRoleCandidate}
	ue.Values[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	ue.Values[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldIDNo, idNo),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#role = :cand AND #reg = :true AND (attribute_not_exists(#appr) OR #appr = :false)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.values(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("candidate not found or already approved: %w", domain.ErrNotFound)
	}
	return err
}

func (r *StudentRepo) List(ctx context.Context) ([]domain.Student, error) {
	return scanAll[domain.Student](ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}

// ListCandidates returns registered candidates with the given approval state.
func (r *StudentRepo) ListCandidates(ctx context.Context, approved bool) ([]domain.Student, error) {
	filter := "#role = :cand AND #appr = :appr"
	if !approved {
		filter = "#role = :cand AND (attribute_not_exists(#appr) OR #appr = :appr)"
	}
	return scanAll[domain.Student](ctx, r.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String(filter),
		ExpressionAttributeNames: map[string]string{
			"#role": fieldRole,
			"#appr": fieldApproved,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cand": &types.AttributeValueMemberS{Value: domain.StudentRoleCandidate},
			":appr": &types.AttributeValueMemberBOOL{Value: approved},
		},
	})
}
