package repository

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/spendsapp/receipt-service/internal/domain"
)

// userIndexName is the GSI keyed on user_id with sort_date as sort key.
// sort_date is the purchase date falling back to the creation time and is
// written on every item, so the sparse index still covers receipts whose
// extraction produced no date.
const userIndexName = "user_id-sort_date-index"

// DynamoDBReceiptRepository implements ReceiptRepository on a DynamoDB table.
// Each receipt is one item with its line items nested, so every write is a
// single self-contained PutItem and deletes cascade for free.
type DynamoDBReceiptRepository struct {
	client    dynamodbiface.DynamoDBAPI
	tableName string
}

// NewDynamoDBReceiptRepository creates a new DynamoDB receipt repository
func NewDynamoDBReceiptRepository(client dynamodbiface.DynamoDBAPI, tableName string) *DynamoDBReceiptRepository {
	return &DynamoDBReceiptRepository{
		client:    client,
		tableName: tableName,
	}
}

// Save validates required fields and writes the receipt as one item,
// overwriting any existing item with the same identifier
func (r *DynamoDBReceiptRepository) Save(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	if err := validateForSave(receipt); err != nil {
		return nil, err
	}

	record := toRecord(receipt)
	attrs, err := dynamodbattribute.MarshalMap(record)
	if err != nil {
		return nil, &RepositoryError{Op: "marshal_receipt", Err: err}
	}

	_, err = r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      attrs,
	})
	if err != nil {
		return nil, &RepositoryError{Op: "put_receipt", Err: err}
	}

	return receipt, nil
}

// FindByID retrieves a receipt by its identifier
func (r *DynamoDBReceiptRepository) FindByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	out, err := r.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       receiptKey(receiptID),
	})
	if err != nil {
		return nil, &RepositoryError{Op: "get_receipt", Err: err}
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrReceiptNotFound
	}

	var record receiptRecord
	if err := dynamodbattribute.UnmarshalMap(out.Item, &record); err != nil {
		return nil, &RepositoryError{Op: "unmarshal_receipt", Err: err}
	}

	return fromRecord(record)
}

// FindByUserID queries the user index newest-first. A limit of zero or below
// means no truncation.
func (r *DynamoDBReceiptRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]domain.Receipt, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(userIndexName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":uid": {S: aws.String(userID)},
		},
		// Sort key is the purchase date (or creation time when no date was
		// extracted); descending gives newest-first
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int64(int64(limit))
	}

	out, err := r.client.QueryWithContext(ctx, input)
	if err != nil {
		return nil, &RepositoryError{Op: "query_receipts", Err: err}
	}

	receipts := make([]domain.Receipt, 0, len(out.Items))
	for _, item := range out.Items {
		var record receiptRecord
		if err := dynamodbattribute.UnmarshalMap(item, &record); err != nil {
			return nil, &RepositoryError{Op: "unmarshal_receipt", Err: err}
		}
		receipt, err := fromRecord(record)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *receipt)
	}

	return receipts, nil
}

// Delete removes the receipt item and reports whether one existed
func (r *DynamoDBReceiptRepository) Delete(ctx context.Context, receiptID string) (bool, error) {
	out, err := r.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          receiptKey(receiptID),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return false, &RepositoryError{Op: "delete_receipt", Err: err}
	}
	return len(out.Attributes) > 0, nil
}

// Exists probes for the identifier, projecting only the key attribute
func (r *DynamoDBReceiptRepository) Exists(ctx context.Context, receiptID string) (bool, error) {
	out, err := r.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  receiptKey(receiptID),
		ProjectionExpression: aws.String("receipt_id"),
	})
	if err != nil {
		return false, &RepositoryError{Op: "check_receipt_exists", Err: err}
	}
	return len(out.Item) > 0, nil
}

// Update loads the receipt, applies the patch and persists the result.
// Last write wins; there is no optimistic-concurrency check.
func (r *DynamoDBReceiptRepository) Update(ctx context.Context, receiptID string, patch domain.ReceiptPatch) (*domain.Receipt, error) {
	receipt, err := r.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.ApplyPatch(patch); err != nil {
		return nil, err
	}
	return r.Save(ctx, receipt)
}

// receiptKey builds the primary key map for one receipt
func receiptKey(receiptID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"receipt_id": {S: aws.String(receiptID)},
	}
}
