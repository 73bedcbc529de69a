package storage

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDynamoDBClient mocks the DynamoDB client
type MockDynamoDBClient struct {
	mock.Mock
}

func (m *MockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func TestDynamoDBPreferencesStorage_Save(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoDBPreferencesStorage(mockClient, "test-preferences")

	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.PutItemInput) bool {
		return *input.TableName == "test-preferences"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := store.Save(context.Background(), &Preferences{
		EngineFilter:     "On",
		SortOption:       "fuelDesc",
		ViewMode:         "card",
		FleetNameFilters: map[string]bool{"Alpha": true},
	})

	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestDynamoDBPreferencesStorage_Get_Success(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoDBPreferencesStorage(mockClient, "test-preferences")

	mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.GetItemInput) bool {
		return *input.TableName == "test-preferences"
	})).Return(&dynamodb.GetItemOutput{
		Item: map[string]types.AttributeValue{
			"id":            &types.AttributeValueMemberS{Value: "user_preferences"},
			"engine_filter": &types.AttributeValueMemberS{Value: "Idle"},
			"sort_option":   &types.AttributeValueMemberS{Value: "nameDesc"},
			"view_mode":     &types.AttributeValueMemberS{Value: "list"},
			"fleet_name_filters": &types.AttributeValueMemberM{
				Value: map[string]types.AttributeValue{
					"Bravo": &types.AttributeValueMemberBOOL{Value: true},
				},
			},
		},
	}, nil)

	prefs, err := store.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "Idle", prefs.EngineFilter)
	assert.Equal(t, "nameDesc", prefs.SortOption)
	assert.Equal(t, "list", prefs.ViewMode)
	assert.True(t, prefs.FleetNameFilters["Bravo"])
	mockClient.AssertExpectations(t)
}

func TestDynamoDBPreferencesStorage_Get_NotFoundReturnsDefaults(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoDBPreferencesStorage(mockClient, "test-preferences")

	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

	prefs, err := store.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
	mockClient.AssertExpectations(t)
}
