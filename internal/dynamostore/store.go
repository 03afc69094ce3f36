// Package dynamostore persists conversation state in a single DynamoDB
// table, one item per thread. Reads are strongly consistent so a
// dispatch always observes the previous dispatch's write.
package dynamostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SelfMadeDev/pytaibot/dialog"
)

const skState = "STATE#"

// dynamodbAPI is the minimal DynamoDB interface required by Store.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store implements dialog.Store over a DynamoDB table.
type Store struct {
	api       dynamodbAPI
	tableName string
}

func New(api dynamodbAPI, tableName string) (*Store, error) {
	if api == nil {
		return nil, errors.New("dynamostore: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("dynamostore: table name must not be empty")
	}
	return &Store{api: api, tableName: tableName}, nil
}

func threadPK(threadID string) string {
	return "THREAD#" + threadID
}

func (s *Store) Get(ctx context.Context, threadID string) (dialog.State, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: threadPK(threadID)},
			"SK": &types.AttributeValueMemberS{Value: skState},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return dialog.State{}, false, fmt.Errorf("dynamostore: get state: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return dialog.State{}, false, nil
	}
	st, err := itemToState(out.Item)
	if err != nil {
		return dialog.State{}, false, fmt.Errorf("dynamostore: decode state: %w", err)
	}
	return st, true, nil
}

func (s *Store) Save(ctx context.Context, threadID string, st dialog.State) error {
	item, err := stateItem(threadID, st)
	if err != nil {
		return fmt.Errorf("dynamostore: encode state: %w", err)
	}
	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamostore: put state: %w", err)
	}
	return nil
}

func stateItem(threadID string, st dialog.State) (map[string]types.AttributeValue, error) {
	item := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: threadPK(threadID)},
		"SK":        &types.AttributeValueMemberS{Value: skState},
		"threadId":  &types.AttributeValueMemberS{Value: threadID},
		"node":      &types.AttributeValueMemberS{Value: st.Node},
		"step":      &types.AttributeValueMemberN{Value: strconv.Itoa(st.Step)},
		"departure": &types.AttributeValueMemberS{Value: st.Departure},
		"arrival":   &types.AttributeValueMemberS{Value: st.Arrival},
	}
	if len(st.Questionnaire) > 0 {
		encoded, err := json.Marshal(st.Questionnaire)
		if err != nil {
			return nil, err
		}
		item["questionnaire"] = &types.AttributeValueMemberS{Value: string(encoded)}
	}
	return item, nil
}

func itemToState(item map[string]types.AttributeValue) (dialog.State, error) {
	node, err := strAttr(item, "node")
	if err != nil {
		return dialog.State{}, err
	}
	step, err := intAttr(item, "step")
	if err != nil {
		return dialog.State{}, err
	}
	departure, _ := strAttr(item, "departure") // allow absent
	arrival, _ := strAttr(item, "arrival")     // allow absent

	st := dialog.State{
		Node:      node,
		Step:      step,
		Departure: departure,
		Arrival:   arrival,
	}
	if raw, rawErr := strAttr(item, "questionnaire"); rawErr == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.Questionnaire); err != nil {
			return dialog.State{}, fmt.Errorf("questionnaire attribute: %w", err)
		}
	}
	return st, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
