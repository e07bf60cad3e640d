package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/models"
)

// DynamoDBStore implements Store using AWS DynamoDB. Messages live in the
// configured table keyed by id; report entries live in a sibling
// "<table>_services" table keyed by serviceName.
type DynamoDBStore struct {
	client        *dynamodb.DynamoDB
	tableName     string
	servicesTable string
}

// NewDynamoDBStore creates a new DynamoDB store instance.
func NewDynamoDBStore(cfg config.StorageConfig) (*DynamoDBStore, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// For local testing with DynamoDB Local
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	store := &DynamoDBStore{
		client:        dynamodb.New(sess),
		tableName:     cfg.TableName,
		servicesTable: cfg.TableName + "_services",
	}

	if err := store.ensureTable(store.tableName, "id"); err != nil {
		return nil, fmt.Errorf("failed to ensure messages table exists: %w", err)
	}
	if err := store.ensureTable(store.servicesTable, "serviceName"); err != nil {
		return nil, fmt.Errorf("failed to ensure services table exists: %w", err)
	}

	return store, nil
}

// ensureTable creates the table if it doesn't exist.
func (d *DynamoDBStore) ensureTable(name, key string) error {
	_, err := d.client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err == nil {
		return nil // Table already exists
	}

	input := &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String(key),
				KeyType:       aws.String("HASH"),
			},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String(key),
				AttributeType: aws.String("S"),
			},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}

	if _, err := d.client.CreateTable(input); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	return d.client.WaitUntilTableExists(&dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
}

// WriteArchiveEntry stores one message, overwriting any prior item with the
// same id.
func (d *DynamoDBStore) WriteArchiveEntry(ctx context.Context, msg models.Message) error {
	item, err := dynamodbattribute.MarshalMap(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", msg.ID, err)
	}

	_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
	}
	return nil
}

// WriteMessages stores the full message set.
func (d *DynamoDBStore) WriteMessages(ctx context.Context, msgs []models.Message) error {
	for _, msg := range msgs {
		if err := d.WriteArchiveEntry(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport stores the per-service report entries.
func (d *DynamoDBStore) WriteReport(ctx context.Context, reports []models.ServiceReport) error {
	for _, report := range reports {
		item, err := dynamodbattribute.MarshalMap(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report for %s: %w", report.ServiceName, err)
		}

		_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(d.servicesTable),
			Item:      item,
		})
		if err != nil {
			return fmt.Errorf("failed to store report for %s: %w", report.ServiceName, err)
		}
	}
	return nil
}

// Close closes the DynamoDB connection.
func (d *DynamoDBStore) Close() error {
	// DynamoDB client doesn't need explicit closing
	return nil
}
