package registry

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

type storeDynamoDBImpl struct {
	DynamoDB dynamodbiface.DynamoDBAPI
	Table    string
}

var _ Store = (*storeDynamoDBImpl)(nil)

// NewStoreDynamoDB returns a Store backed by a DynamoDB table keyed by name.
func NewStoreDynamoDB(client dynamodbiface.DynamoDBAPI, table string) *storeDynamoDBImpl {
	return &storeDynamoDBImpl{
		DynamoDB: client,
		Table:    table,
	}
}

func (s *storeDynamoDBImpl) Put(ctx context.Context, rec Record) error {
	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return errors.Wrap(err, "failed to marshal record")
	}
	_, err = s.DynamoDB.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	return errors.Wrapf(err, "failed to put record %s", rec.Name)
}

func (s *storeDynamoDBImpl) List(ctx context.Context) ([]Record, error) {
	recs := []Record{}
	var startKey map[string]*dynamodb.AttributeValue
	for {
		res, err := s.DynamoDB.ScanWithContext(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.Table),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan records")
		}
		page := []Record{}
		if err := dynamodbattribute.UnmarshalListOfMaps(res.Items, &page); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal records")
		}
		recs = append(recs, page...)
		if len(res.LastEvaluatedKey) == 0 {
			return recs, nil
		}
		startKey = res.LastEvaluatedKey
	}
}
