package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI interface for mocking
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBPreferencesStorage persists preferences as one item in a
// DynamoDB table, for hosted deployments.
type DynamoDBPreferencesStorage struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoDBPreferencesStorage(client DynamoDBAPI, tableName string) *DynamoDBPreferencesStorage {
	return &DynamoDBPreferencesStorage{
		client:    client,
		tableName: tableName,
	}
}

type preferencesItem struct {
	ID               string          `dynamodbav:"id"`
	EngineFilter     string          `dynamodbav:"engine_filter"`
	SortOption       string          `dynamodbav:"sort_option"`
	ViewMode         string          `dynamodbav:"view_mode"`
	FleetNameFilters map[string]bool `dynamodbav:"fleet_name_filters"`
}

func (d *DynamoDBPreferencesStorage) Get(ctx context.Context) (*Preferences, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: preferencesRecordID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	if result.Item == nil {
		return DefaultPreferences(), nil
	}

	var item preferencesItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	prefs := &Preferences{
		EngineFilter:     item.EngineFilter,
		SortOption:       item.SortOption,
		ViewMode:         item.ViewMode,
		FleetNameFilters: item.FleetNameFilters,
	}
	if prefs.FleetNameFilters == nil {
		prefs.FleetNameFilters = map[string]bool{}
	}
	return prefs, nil
}

func (d *DynamoDBPreferencesStorage) Save(ctx context.Context, prefs *Preferences) error {
	item, err := attributevalue.MarshalMap(preferencesItem{
		ID:               preferencesRecordID,
		EngineFilter:     prefs.EngineFilter,
		SortOption:       prefs.SortOption,
		ViewMode:         prefs.ViewMode,
		FleetNameFilters: prefs.FleetNameFilters,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put preferences: %w", err)
	}

	return nil
}
