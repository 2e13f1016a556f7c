package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoStorage keeps the slot as a single item in a DynamoDB table,
// keyed by slot name. Useful when the cart must survive the host the
// process runs on.
type DynamoStorage struct {
	client    *dynamodb.Client
	tableName string
	slot      string
}

// dynamoSlot is the DynamoDB item structure.
type dynamoSlot struct {
	Slot      string `dynamodbav:"slot"`
	Data      []byte `dynamodbav:"data"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoStorage(client *dynamodb.Client, tableName, slot string) *DynamoStorage {
	return &DynamoStorage{
		client:    client,
		tableName: tableName,
		slot:      slot,
	}
}

// Load fetches the slot item. An absent item maps to ErrNotFound.
func (d *DynamoStorage) Load(ctx context.Context) ([]byte, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"slot": d.slot})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", d.slot, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item dynamoSlot
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot %s: %w", d.slot, err)
	}
	return item.Data, nil
}

// Save overwrites the slot item with data.
func (d *DynamoStorage) Save(ctx context.Context, data []byte) error {
	av, err := attributevalue.MarshalMap(dynamoSlot{
		Slot:      d.slot,
		Data:      data,
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", d.slot, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put slot %s: %w", d.slot, err)
	}
	return nil
}
