package sqs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Gateway is the set of remote queue operations sqsnav needs.
// It is implemented by *Client and can be faked in tests.
type Gateway interface {
	ListQueues(ctx context.Context, region, nameFilter string) ([]string, error)
	Send(ctx context.Context, region, queueURL, body string) (SendResult, error)
	Attributes(ctx context.Context, region, queueURL string) (map[string]string, error)
	WhoAmI(ctx context.Context, region string) (Identity, error)
}

// Reconfigurer is implemented by gateways whose profile and endpoint can be
// switched at runtime.
type Reconfigurer interface {
	Reconfigure(opts Options)
}

// Ensure Client implements Gateway and Reconfigurer at compile time.
var (
	_ Gateway      = (*Client)(nil)
	_ Reconfigurer = (*Client)(nil)
)

// API is the subset of the SQS SDK client used by Client.
type API interface {
	ListQueues(ctx context.Context, in *awssqs.ListQueuesInput, optFns ...func(*awssqs.Options)) (*awssqs.ListQueuesOutput, error)
	SendMessage(ctx context.Context, in *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
	GetQueueAttributes(ctx context.Context, in *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error)
}

// IdentityAPI is the subset of the STS SDK client used by Client.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options selects the credentials profile and endpoint used for every region.
type Options struct {
	Profile  string
	Endpoint string
}

// Client talks to SQS and STS. SDK clients are created lazily and cached per region.
type Client struct {
	opts Options

	mu       sync.Mutex
	queues   map[string]API
	identity map[string]IdentityAPI

	// factory builds the SDK clients for a region; replaced in tests.
	factory func(ctx context.Context, region string) (API, IdentityAPI, error)
}

// NewClient builds a Client using the shared AWS config chain.
func NewClient(opts Options) *Client {
	c := &Client{
		opts:     opts,
		queues:   make(map[string]API),
		identity: make(map[string]IdentityAPI),
	}
	c.factory = c.sdkClients
	return c
}

// NewClientWithAPI returns a Client whose every region is served by the
// given implementations.
func NewClientWithAPI(api API, id IdentityAPI) *Client {
	c := NewClient(Options{})
	c.factory = func(context.Context, string) (API, IdentityAPI, error) {
		return api, id, nil
	}
	return c
}

// Reconfigure switches the profile and endpoint. Cached per-region clients are
// dropped so the next call loads fresh credentials.
func (c *Client) Reconfigure(opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
	c.queues = make(map[string]API)
	c.identity = make(map[string]IdentityAPI)
}

// Options returns the profile and endpoint currently in use.
func (c *Client) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// sdkClients runs under c.mu.
func (c *Client) sdkClients(ctx context.Context, region string) (API, IdentityAPI, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if c.opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(c.opts.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := c.opts.Endpoint
	q := awssqs.NewFromConfig(cfg, func(o *awssqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	s := sts.NewFromConfig(cfg, func(o *sts.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return q, s, nil
}

func (c *Client) clients(ctx context.Context, region string) (API, IdentityAPI, error) {
	if c == nil {
		return nil, nil, errors.New("client is nil")
	}
	if region == "" {
		return nil, nil, ErrNoRegion
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if q, ok := c.queues[region]; ok {
		return q, c.identity[region], nil
	}
	q, id, err := c.factory(ctx, region)
	if err != nil {
		return nil, nil, err
	}
	c.queues[region] = q
	c.identity[region] = id
	return q, id, nil
}

// ListQueues returns every queue URL in region, following NextToken until the
// listing is exhausted. Pages are concatenated in the order received. A
// non-empty nameFilter keeps only URLs containing it.
func (c *Client) ListQueues(ctx context.Context, region, nameFilter string) ([]string, error) {
	api, _, err := c.clients(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("list queues in %s: %w", region, err)
	}

	var urls []string
	var token *string
	for {
		out, err := api.ListQueues(ctx, &awssqs.ListQueuesInput{NextToken: token})
		if err != nil {
			return nil, fmt.Errorf("list queues in %s: %w", region, err)
		}
		urls = append(urls, out.QueueUrls...)
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		token = out.NextToken
	}

	if nameFilter == "" {
		return urls, nil
	}
	filtered := urls[:0]
	for _, u := range urls {
		if strings.Contains(u, nameFilter) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// Send publishes body to the queue.
func (c *Client) Send(ctx context.Context, region, queueURL, body string) (SendResult, error) {
	api, _, err := c.clients(ctx, region)
	if err != nil {
		return SendResult{}, fmt.Errorf("send to %s: %w", queueURL, err)
	}
	out, err := api.SendMessage(ctx, &awssqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("send to %s: %w", queueURL, err)
	}
	return SendResult{
		MessageID:      aws.ToString(out.MessageId),
		MD5OfBody:      aws.ToString(out.MD5OfMessageBody),
		SequenceNumber: aws.ToString(out.SequenceNumber),
	}, nil
}

// Attributes returns every attribute of the queue.
func (c *Client) Attributes(ctx context.Context, region, queueURL string) (map[string]string, error) {
	api, _, err := c.clients(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("queue attributes %s: %w", queueURL, err)
	}
	out, err := api.GetQueueAttributes(ctx, &awssqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameAll},
	})
	if err != nil {
		return nil, fmt.Errorf("queue attributes %s: %w", queueURL, err)
	}
	attrs := make(map[string]string, len(out.Attributes))
	for k, v := range out.Attributes {
		attrs[k] = v
	}
	return attrs, nil
}

// WhoAmI reports the caller identity for the configured credentials. It
// doubles as a connectivity check.
func (c *Client) WhoAmI(ctx context.Context, region string) (Identity, error) {
	_, api, err := c.clients(ctx, region)
	if err != nil {
		return Identity{}, fmt.Errorf("caller identity: %w", err)
	}
	if api == nil {
		return Identity{}, errors.New("caller identity: sts client unavailable")
	}
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
