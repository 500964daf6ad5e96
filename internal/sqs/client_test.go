package sqs

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type fakeAPI struct {
	pages      [][]string
	listErr    error
	listTokens []string

	sent    *awssqs.SendMessageInput
	sendErr error

	attrsIn *awssqs.GetQueueAttributesInput
	attrs   map[string]string
}

func (f *fakeAPI) ListQueues(_ context.Context, in *awssqs.ListQueuesInput, _ ...func(*awssqs.Options)) (*awssqs.ListQueuesOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.listTokens = append(f.listTokens, aws.ToString(in.NextToken))
	page := 0
	if in.NextToken != nil {
		page = int((*in.NextToken)[0] - '0')
	}
	out := &awssqs.ListQueuesOutput{QueueUrls: f.pages[page]}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, in *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	f.sent = in
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &awssqs.SendMessageOutput{
		MessageId:        aws.String("m-1"),
		MD5OfMessageBody: aws.String("abc"),
	}, nil
}

func (f *fakeAPI) GetQueueAttributes(_ context.Context, in *awssqs.GetQueueAttributesInput, _ ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error) {
	f.attrsIn = in
	return &awssqs.GetQueueAttributesOutput{Attributes: f.attrs}, nil
}

type fakeSTS struct{}

func (fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/dev"),
		UserId:  aws.String("AIDA"),
	}, nil
}

func TestListQueues_ConcatenatesPagesInOrder(t *testing.T) {
	api := &fakeAPI{pages: [][]string{{"u1", "u2"}, {"u3"}}}
	c := NewClientWithAPI(api, fakeSTS{})

	got, err := c.ListQueues(context.Background(), "us-east-1", "")
	if err != nil {
		t.Fatalf("ListQueues returned error: %v", err)
	}
	if want := []string{"u1", "u2", "u3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ListQueues = %v, want %v", got, want)
	}
	if want := []string{"", "1"}; !reflect.DeepEqual(api.listTokens, want) {
		t.Fatalf("tokens = %v, want %v", api.listTokens, want)
	}
}

func TestListQueues_FiltersBySubstring(t *testing.T) {
	api := &fakeAPI{pages: [][]string{
		{"https://sqs.us-east-1.amazonaws.com/1/orders", "https://sqs.us-east-1.amazonaws.com/1/payments"},
		{"https://sqs.us-east-1.amazonaws.com/1/orders-dlq"},
	}}
	c := NewClientWithAPI(api, fakeSTS{})

	got, err := c.ListQueues(context.Background(), "us-east-1", "orders")
	if err != nil {
		t.Fatalf("ListQueues returned error: %v", err)
	}
	if len(got) != 2 || !strings.HasSuffix(got[0], "/orders") || !strings.HasSuffix(got[1], "/orders-dlq") {
		t.Fatalf("ListQueues = %v, want the two orders queues", got)
	}
}

func TestListQueues_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	c := NewClientWithAPI(&fakeAPI{listErr: boom}, fakeSTS{})

	_, err := c.ListQueues(context.Background(), "eu-west-1", "")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "eu-west-1") {
		t.Fatalf("error %q should name the region", err)
	}
}

func TestClient_RequiresRegion(t *testing.T) {
	c := NewClientWithAPI(&fakeAPI{}, fakeSTS{})
	if _, err := c.ListQueues(context.Background(), "", ""); !errors.Is(err, ErrNoRegion) {
		t.Fatalf("error = %v, want ErrNoRegion", err)
	}

	var nilClient *Client
	if _, err := nilClient.Attributes(context.Background(), "r", "u"); err == nil {
		t.Fatalf("nil client should return an error")
	}
}

func TestSend(t *testing.T) {
	api := &fakeAPI{}
	c := NewClientWithAPI(api, fakeSTS{})

	res, err := c.Send(context.Background(), "us-east-1", "https://q", `{"a":1}`)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if res.MessageID != "m-1" || res.MD5OfBody != "abc" || res.SequenceNumber != "" {
		t.Fatalf("Send result = %#v", res)
	}
	if aws.ToString(api.sent.QueueUrl) != "https://q" || aws.ToString(api.sent.MessageBody) != `{"a":1}` {
		t.Fatalf("sent input = %#v", api.sent)
	}

	api.sendErr = errors.New("denied")
	if _, err := c.Send(context.Background(), "us-east-1", "https://q", "x"); err == nil || !strings.Contains(err.Error(), "send to https://q") {
		t.Fatalf("Send error = %v, want wrapped", err)
	}
}

func TestAttributesRequestsAll(t *testing.T) {
	api := &fakeAPI{attrs: map[string]string{AttrVisibleMessages: "7"}}
	c := NewClientWithAPI(api, fakeSTS{})

	got, err := c.Attributes(context.Background(), "us-east-1", "https://q")
	if err != nil {
		t.Fatalf("Attributes returned error: %v", err)
	}
	if MessageCount(got) != 7 {
		t.Fatalf("MessageCount = %d, want 7", MessageCount(got))
	}
	want := []types.QueueAttributeName{types.QueueAttributeNameAll}
	if !reflect.DeepEqual(api.attrsIn.AttributeNames, want) {
		t.Fatalf("AttributeNames = %v, want %v", api.attrsIn.AttributeNames, want)
	}

	got["mutated"] = "yes"
	if _, ok := api.attrs["mutated"]; ok {
		t.Fatalf("Attributes should return a copy")
	}
}

func TestWhoAmI(t *testing.T) {
	c := NewClientWithAPI(&fakeAPI{}, fakeSTS{})
	id, err := c.WhoAmI(context.Background(), "us-east-1")
	if err != nil {
		t.Fatalf("WhoAmI returned error: %v", err)
	}
	if id.Account != "123456789012" || id.UserID != "AIDA" {
		t.Fatalf("identity = %#v", id)
	}
}

func TestClient_CachesPerRegion(t *testing.T) {
	calls := map[string]int{}
	c := NewClient(Options{})
	c.factory = func(_ context.Context, region string) (API, IdentityAPI, error) {
		calls[region]++
		return &fakeAPI{pages: [][]string{nil}}, fakeSTS{}, nil
	}
	for _, r := range []string{"a", "b", "a", "a"} {
		if _, err := c.ListQueues(context.Background(), r, ""); err != nil {
			t.Fatalf("ListQueues(%s) returned error: %v", r, err)
		}
	}
	if calls["a"] != 1 || calls["b"] != 1 {
		t.Fatalf("factory calls = %v, want one per region", calls)
	}
}

func TestReconfigure_DropsCachedClients(t *testing.T) {
	c := NewClient(Options{Profile: "default"})
	var built []Options
	c.factory = func(context.Context, string) (API, IdentityAPI, error) {
		built = append(built, c.opts)
		return &fakeAPI{pages: [][]string{{"q"}}}, fakeSTS{}, nil
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.ListQueues(ctx, "us-east-1", ""); err != nil {
			t.Fatalf("ListQueues returned error: %v", err)
		}
	}
	if len(built) != 1 {
		t.Fatalf("factory calls = %d, want 1 while cached", len(built))
	}

	next := Options{Profile: "staging", Endpoint: "http://localhost:4566"}
	c.Reconfigure(next)
	if got := c.Options(); got != next {
		t.Fatalf("Options = %#v, want %#v", got, next)
	}
	if _, err := c.ListQueues(ctx, "us-east-1", ""); err != nil {
		t.Fatalf("ListQueues returned error: %v", err)
	}
	if len(built) != 2 || built[1] != next {
		t.Fatalf("factory saw %#v, want a second build with %#v", built, next)
	}
}
