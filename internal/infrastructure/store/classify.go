package store

import (
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// errorClass buckets a failed store call for the retry decision.
type errorClass int

const (
	// classThrottled: write throughput exceeded; back off and resubmit
	// the same batch unchanged.
	classThrottled errorClass = iota
	// classDuplicate: the batch contains multiple writes for one key;
	// deduplicate locally and resubmit without consuming a retry.
	classDuplicate
	// classOther: anything else; back off and retry until the cap.
	classOther
)

// classify maps a DynamoDB error to its retry class.
func classify(err error) errorClass {
	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return classThrottled
	}
	var limit *types.RequestLimitExceeded
	if errors.As(err, &limit) {
		return classThrottled
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ProvisionedThroughputExceededException", "RequestLimitExceeded":
			return classThrottled
		case "ValidationException":
			if strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "duplicate") {
				return classDuplicate
			}
		}
	}
	return classOther
}
