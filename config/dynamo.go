package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	TableName     string
	UserIndexName string
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}

	userIndexName := os.Getenv("DYNAMO_USER_INDEX")
	if userIndexName == "" {
		userIndexName = "user_id-created_at-index"
	}

	return &DynamoConfig{
		TableName:     tableName,
		UserIndexName: userIndexName,
	}, nil
}
