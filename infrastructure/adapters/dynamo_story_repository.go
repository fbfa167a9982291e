package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"time"
)

var storyFlagAttributes = map[domain.StoryFlag]string{
	domain.FavoriteFlag: "is_favorite",
	domain.PublicFlag:   "is_public",
}

const (
	storyKeyPrefix = "STORY#"
	shareKeyPrefix = "SHARE#"
	metaSortKey    = "META"
)

type dynamoStoryItem struct {
	PK           string `dynamodbav:"pk"`
	SK           string `dynamodbav:"sk"`
	StoryID      string `dynamodbav:"story_id"`
	UserID       string `dynamodbav:"user_id"`
	Title        string `dynamodbav:"title"`
	PageCount    int    `dynamodbav:"page_count"`
	WordsPerPage int    `dynamodbav:"words_per_page"`
	TotalWords   int    `dynamodbav:"total_words"`
	IsFavorite   bool   `dynamodbav:"is_favorite"`
	IsPublic     bool   `dynamodbav:"is_public"`
	Request      string `dynamodbav:"request"`
	Story        string `dynamodbav:"story"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

type dynamoShareItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	StoryID   string `dynamodbav:"story_id"`
	Active    bool   `dynamodbav:"active"`
	ViewCount int    `dynamodbav:"view_count"`
	CreatedAt string `dynamodbav:"created_at"`
	TTL       int64  `dynamodbav:"ttl,omitempty"`
}

type dynamoStoryRepository struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
}

func NewDynamoStoryRepository(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.StoryRepositoryPort {
	return &dynamoStoryRepository{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (r *dynamoStoryRepository) SaveStory(ctx context.Context, record domain.StoryRecord) error {
	item, err := toStoryItem(record)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to encode story item", map[string]interface{}{
			"story_id": record.ID,
		})
		return err
	}
	return r.put(ctx, item)
}

func (r *dynamoStoryRepository) GetStory(ctx context.Context, storyID string) (*domain.StoryRecord, error) {
	var item dynamoStoryItem
	found, err := r.get(ctx, storyKeyPrefix+storyID, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrStoryNotFound
	}
	return fromStoryItem(item)
}

func (r *dynamoStoryRepository) ListStoriesByUser(ctx context.Context, userID string, limit int) ([]domain.StoryRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.dynamoConfig.TableName),
		IndexName:              aws.String(r.dynamoConfig.UserIndexName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":uid": {S: aws.String(userID)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int64(int64(limit))
	}

	records := make([]domain.StoryRecord, 0)
	for {
		out, err := r.dynamoSvc.QueryWithContext(ctx, input)
		if err != nil {
			r.logger.ErrorWithFields(err, "Failed to query user stories", map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}

		var items []dynamoStoryItem
		if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &items); err != nil {
			r.logger.Error(err, "Failed to unmarshal story items")
			return nil, err
		}
		for _, item := range items {
			record, err := fromStoryItem(item)
			if err != nil {
				return nil, err
			}
			records = append(records, *record)
		}

		if len(out.LastEvaluatedKey) == 0 || (limit > 0 && len(records) >= limit) {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *dynamoStoryRepository) SetStoryFlag(ctx context.Context, storyID string, flag domain.StoryFlag, expected, value bool, updatedAt time.Time) error {
	attribute, ok := storyFlagAttributes[flag]
	if !ok {
		return fmt.Errorf("unknown story flag %q", flag)
	}

	_, err := r.dynamoSvc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.dynamoConfig.TableName),
		Key:                 itemKey(storyKeyPrefix + storyID),
		UpdateExpression:    aws.String("SET #flag = :value, updated_at = :updated"),
		ConditionExpression: aws.String("attribute_exists(pk) AND #flag = :expected"),
		ExpressionAttributeNames: map[string]*string{
			"#flag": aws.String(attribute),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":value":    {BOOL: aws.Bool(value)},
			":expected": {BOOL: aws.Bool(expected)},
			":updated":  {S: aws.String(updatedAt.UTC().Format(time.RFC3339Nano))},
		},
	})

	var awsErr awserr.Error
	if errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return domain.ErrStoryConflict
	}
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to update story flag", map[string]interface{}{
			"story_id": storyID,
			"flag":     flag,
		})
	}
	return err
}

func (r *dynamoStoryRepository) DeleteStory(ctx context.Context, storyID string) error {
	_, err := r.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.dynamoConfig.TableName),
		Key:       itemKey(storyKeyPrefix + storyID),
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to delete story item", map[string]interface{}{
			"story_id": storyID,
		})
	}
	return err
}

func (r *dynamoStoryRepository) SaveShare(ctx context.Context, share domain.StoryShare) error {
	item := dynamoShareItem{
		PK:        shareKeyPrefix + share.Token,
		SK:        metaSortKey,
		StoryID:   share.StoryID,
		Active:    share.Active,
		ViewCount: share.ViewCount,
		CreatedAt: share.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if share.ExpiresAt != nil {
		item.TTL = share.ExpiresAt.Unix()
	}
	return r.put(ctx, item)
}

func (r *dynamoStoryRepository) GetShare(ctx context.Context, token string) (*domain.StoryShare, error) {
	var item dynamoShareItem
	found, err := r.get(ctx, shareKeyPrefix+token, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrStoryNotFound
	}

	share := &domain.StoryShare{
		Token:     token,
		StoryID:   item.StoryID,
		Active:    item.Active,
		ViewCount: item.ViewCount,
	}
	share.CreatedAt, _ = time.Parse(time.RFC3339Nano, item.CreatedAt)
	if item.TTL > 0 {
		expiresAt := time.Unix(item.TTL, 0).UTC()
		share.ExpiresAt = &expiresAt
	}
	return share, nil
}

func (r *dynamoStoryRepository) IncrementShareViews(ctx context.Context, token string) error {
	_, err := r.dynamoSvc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.dynamoConfig.TableName),
		Key:              itemKey(shareKeyPrefix + token),
		UpdateExpression: aws.String("ADD view_count :one"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":one": {N: aws.String("1")},
		},
	})
	return err
}

func (r *dynamoStoryRepository) put(ctx context.Context, item interface{}) error {
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		r.logger.Error(err, "Failed to marshal item")
		return err
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(r.dynamoConfig.TableName),
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to save item", map[string]interface{}{
			"pk": *av["pk"].S,
		})
	}
	return err
}

func (r *dynamoStoryRepository) get(ctx context.Context, pk string, out interface{}) (bool, error) {
	res, err := r.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.dynamoConfig.TableName),
		Key:       itemKey(pk),
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to get item", map[string]interface{}{
			"pk": pk,
		})
		return false, err
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := dynamodbattribute.UnmarshalMap(res.Item, out); err != nil {
		r.logger.Error(err, "Failed to unmarshal item")
		return false, err
	}
	return true, nil
}

func itemKey(pk string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"pk": {S: aws.String(pk)},
		"sk": {S: aws.String(metaSortKey)},
	}
}

func toStoryItem(record domain.StoryRecord) (dynamoStoryItem, error) {
	request, err := json.Marshal(record.Request)
	if err != nil {
		return dynamoStoryItem{}, fmt.Errorf("encode story request: %w", err)
	}
	story, err := json.Marshal(record.Story)
	if err != nil {
		return dynamoStoryItem{}, fmt.Errorf("encode story content: %w", err)
	}

	return dynamoStoryItem{
		PK:           storyKeyPrefix + record.ID,
		SK:           metaSortKey,
		StoryID:      record.ID,
		UserID:       record.UserID,
		Title:        record.Title,
		PageCount:    record.PageCount,
		WordsPerPage: record.WordsPerPage,
		TotalWords:   record.TotalWords,
		IsFavorite:   record.IsFavorite,
		IsPublic:     record.IsPublic,
		Request:      string(request),
		Story:        string(story),
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func fromStoryItem(item dynamoStoryItem) (*domain.StoryRecord, error) {
	record := &domain.StoryRecord{
		ID:           item.StoryID,
		UserID:       item.UserID,
		Title:        item.Title,
		PageCount:    item.PageCount,
		WordsPerPage: item.WordsPerPage,
		TotalWords:   item.TotalWords,
		IsFavorite:   item.IsFavorite,
		IsPublic:     item.IsPublic,
	}
	if err := json.Unmarshal([]byte(item.Request), &record.Request); err != nil {
		return nil, fmt.Errorf("decode story request: %w", err)
	}
	if err := json.Unmarshal([]byte(item.Story), &record.Story); err != nil {
		return nil, fmt.Errorf("decode story content: %w", err)
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, item.CreatedAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return record, nil
}
