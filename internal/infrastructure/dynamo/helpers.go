package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
)

// batchWriteLimit is the maximum number of requests BatchWriteItem accepts per call.
const batchWriteLimit = 25

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression,
// followed by a REMOVE clause for removes. Keys are sorted so the output is stable.
func buildUpdateExpr(updates map[string]interface{}, removes ...string) (*updateExpr, error) {
	if len(updates) == 0 && len(removes) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := &updateExpr{Names: make(map[string]string), Values: make(map[string]types.AttributeValue)}
	var set []string
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		set = append(set, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}

	sortedRemoves := append([]string(nil), removes...)
	sort.Strings(sortedRemoves)
	var rm []string
	for i, k := range sortedRemoves {
		nameKey := fmt.Sprintf("#r%d", i)
		ue.Names[nameKey] = k
		rm = append(rm, nameKey)
	}

	var parts []string
	if len(set) > 0 {
		parts = append(parts, "SET "+strings.Join(set, ", "))
	}
	if len(rm) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(rm, ", "))
	}
	ue.Expr = strings.Join(parts, " ")
	return ue, nil
}

// values returns Values, or nil when empty since DynamoDB rejects an empty map.
func (u *updateExpr) values() map[string]types.AttributeValue {
	if len(u.Values) == 0 {
		return nil
	}
	return u.Values
}

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// batchWriter is the slice of the DynamoDB client batchDelete needs.
type batchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// unprocessedBackoff paces resubmission of throttled batch items.
var unprocessedBackoff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// batchDelete removes keys from table in chunks of batchWriteLimit. Unprocessed
// items are resubmitted with exponential backoff until DynamoDB accepts them,
// the backoff gives up, or ctx is done.
func batchDelete(ctx context.Context, client batchWriter, table string, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, k := range keys[start:end] {
			reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k}})
		}
		pending := map[string][]types.WriteRequest{table: reqs}
		op := func() error {
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return backoff.Permanent(fmt.Errorf("batch delete from %s: %w", table, err))
			}
			pending = out.UnprocessedItems
			if n := len(pending[table]); n > 0 {
				return fmt.Errorf("batch delete from %s: %d items unprocessed", table, n)
			}
			return nil
		}
		if err := backoff.Retry(op, backoff.WithContext(unprocessedBackoff(), ctx)); err != nil {
			return err
		}
	}
	return nil
}

// queryAll runs a paginated Query and returns the items of every page.
func queryAll[T any](ctx context.Context, client *dynamodb.Client, input *dynamodb.QueryInput) ([]T, error) {
	var items []T
	p := dynamodb.NewQueryPaginator(client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}
	return items, nil
}

// scanAll is queryAll for Scan.
func scanAll[T any](ctx context.Context, client *dynamodb.Client, input *dynamodb.ScanInput) ([]T, error) {
	var items []T
	p := dynamodb.NewScanPaginator(client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}
	return items, nil
}

func partitionQuery(table, attr, value string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  map[string]string{"#pk": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: value}},
	}
}
