package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/identitystore"
	idstypes "github.com/aws/aws-sdk-go-v2/service/identitystore/types"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	"github.com/aws/smithy-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for directory API operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idstore_requests_total",
		Help: "Total directory API requests by operation and status",
	}, []string{"operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idstore_request_duration_seconds",
		Help:    "Directory API request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idstore_errors_total",
		Help: "Total directory API errors by class",
	}, []string{"class"})
)

// Config holds the directory client configuration.
type Config struct {
	// Profile is the shared AWS config profile to use ("" for default chain).
	Profile string

	// Region overrides the region from the credential chain.
	Region string

	// IdentityStoreID pins the identity store; when empty the first
	// SSO instance's store is resolved via ResolveIdentityStore.
	IdentityStoreID string

	// PageSize is the per-call item cap requested from the server.
	PageSize int32
}

// Client is the AWS-backed directory client.
type Client struct {
	ids     identityStoreAPI
	sso     ssoAdminAPI
	storeID string
	config  Config
	logger  zerolog.Logger
}

// identityStoreAPI and ssoAdminAPI are the SDK surfaces the client consumes,
// kept narrow so tests can substitute them.
type identityStoreAPI interface {
	ListGroups(ctx context.Context, in *identitystore.ListGroupsInput, opts ...func(*identitystore.Options)) (*identitystore.ListGroupsOutput, error)
	ListGroupMemberships(ctx context.Context, in *identitystore.ListGroupMembershipsInput, opts ...func(*identitystore.Options)) (*identitystore.ListGroupMembershipsOutput, error)
	ListUsers(ctx context.Context, in *identitystore.ListUsersInput, opts ...func(*identitystore.Options)) (*identitystore.ListUsersOutput, error)
	DescribeUser(ctx context.Context, in *identitystore.DescribeUserInput, opts ...func(*identitystore.Options)) (*identitystore.DescribeUserOutput, error)
}

type ssoAdminAPI interface {
	ListInstances(ctx context.Context, in *ssoadmin.ListInstancesInput, opts ...func(*ssoadmin.Options)) (*ssoadmin.ListInstancesOutput, error)
}

// SetIdentityStoreAPI replaces the identity store SDK surface (for testing).
func (c *Client) SetIdentityStoreAPI(api identityStoreAPI) {
	c.ids = api
}

// SetSSOAdminAPI replaces the SSO admin SDK surface (for testing).
func (c *Client) SetSSOAdminAPI(api ssoAdminAPI) {
	c.sso = api
}

// New creates a new directory client using the default AWS credential chain,
// honoring the profile and region overrides from cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	logger := log.With().Str("component", "directory-client").Logger()

	return &Client{
		ids:     identitystore.NewFromConfig(awsCfg),
		sso:     ssoadmin.NewFromConfig(awsCfg),
		storeID: cfg.IdentityStoreID,
		config:  cfg,
		logger:  logger,
	}, nil
}

// ResolveIdentityStore returns the identity store id to operate on.
// A configured id wins; otherwise the first SSO instance is used.
// Returns ErrNoIdentityStore when no instance exists.
func (c *Client) ResolveIdentityStore(ctx context.Context) (string, error) {
	if c.storeID != "" {
		return c.storeID, nil
	}

	var out *ssoadmin.ListInstancesOutput
	err := c.do(ctx, "ListInstances", func() error {
		var callErr error
		out, callErr = c.sso.ListInstances(ctx, &ssoadmin.ListInstancesInput{})
		return callErr
	})
	if err != nil {
		return "", err
	}

	if len(out.Instances) == 0 {
		return "", ErrNoIdentityStore
	}

	c.storeID = aws.ToString(out.Instances[0].IdentityStoreId)
	c.logger.Debug().
		Str("identity_store_id", c.storeID).
		Msg("Resolved identity store from first SSO instance")

	return c.storeID, nil
}

// ListGroups returns one page of groups starting at cursor.
func (c *Client) ListGroups(ctx context.Context, cursor *string) (Page[Group], error) {
	storeID, err := c.ResolveIdentityStore(ctx)
	if err != nil {
		return Page[Group]{}, err
	}

	var out *identitystore.ListGroupsOutput
	err = c.do(ctx, "ListGroups", func() error {
		var callErr error
		out, callErr = c.ids.ListGroups(ctx, &identitystore.ListGroupsInput{
			IdentityStoreId: aws.String(storeID),
			MaxResults:      aws.Int32(c.config.PageSize),
			NextToken:       cursor,
		})
		return callErr
	})
	if err != nil {
		return Page[Group]{}, err
	}

	page := Page[Group]{
		Items: make([]Group, 0, len(out.Groups)),
		Next:  out.NextToken,
	}
	for _, g := range out.Groups {
		page.Items = append(page.Items, Group{
			ID:          aws.ToString(g.GroupId),
			DisplayName: aws.ToString(g.DisplayName),
		})
	}
	return page, nil
}

// ListGroupMemberships returns one page of memberships for a group.
func (c *Client) ListGroupMemberships(ctx context.Context, groupID string, cursor *string) (Page[Membership], error) {
	storeID, err := c.ResolveIdentityStore(ctx)
	if err != nil {
		return Page[Membership]{}, err
	}

	var out *identitystore.ListGroupMembershipsOutput
	err = c.do(ctx, "ListGroupMemberships", func() error {
		var callErr error
		out, callErr = c.ids.ListGroupMemberships(ctx, &identitystore.ListGroupMembershipsInput{
			IdentityStoreId: aws.String(storeID),
			GroupId:         aws.String(groupID),
			MaxResults:      aws.Int32(c.config.PageSize),
			NextToken:       cursor,
		})
		return callErr
	})
	if err != nil {
		return Page[Membership]{}, err
	}

	page := Page[Membership]{
		Items: make([]Membership, 0, len(out.GroupMemberships)),
		Next:  out.NextToken,
	}
	for _, m := range out.GroupMemberships {
		if userID, ok := m.MemberId.(*idstypes.MemberIdMemberUserId); ok {
			page.Items = append(page.Items, Membership{MemberUserID: userID.Value})
		}
	}
	return page, nil
}

// ListUsers returns one page of users starting at cursor.
func (c *Client) ListUsers(ctx context.Context, cursor *string) (Page[User], error) {
	storeID, err := c.ResolveIdentityStore(ctx)
	if err != nil {
		return Page[User]{}, err
	}

	var out *identitystore.ListUsersOutput
	err = c.do(ctx, "ListUsers", func() error {
		var callErr error
		out, callErr = c.ids.ListUsers(ctx, &identitystore.ListUsersInput{
			IdentityStoreId: aws.String(storeID),
			MaxResults:      aws.Int32(c.config.PageSize),
			NextToken:       cursor,
		})
		return callErr
	})
	if err != nil {
		return Page[User]{}, err
	}

	page := Page[User]{
		Items: make([]User, 0, len(out.Users)),
		Next:  out.NextToken,
	}
	for _, u := range out.Users {
		page.Items = append(page.Items, User{
			ID:           aws.ToString(u.UserId),
			UserName:     aws.ToString(u.UserName),
			DisplayName:  aws.ToString(u.DisplayName),
			PrimaryEmail: primaryEmail(u.Emails),
		})
	}
	return page, nil
}

// DescribeUser fetches a single user by canonical id.
func (c *Client) DescribeUser(ctx context.Context, userID string) (User, error) {
	storeID, err := c.ResolveIdentityStore(ctx)
	if err != nil {
		return User{}, err
	}

	var out *identitystore.DescribeUserOutput
	err = c.do(ctx, "DescribeUser", func() error {
		var callErr error
		out, callErr = c.ids.DescribeUser(ctx, &identitystore.DescribeUserInput{
			IdentityStoreId: aws.String(storeID),
			UserId:          aws.String(userID),
		})
		return callErr
	})
	if err != nil {
		return User{}, err
	}

	return User{
		ID:           aws.ToString(out.UserId),
		UserName:     aws.ToString(out.UserName),
		DisplayName:  aws.ToString(out.DisplayName),
		PrimaryEmail: primaryEmail(out.Emails),
	}, nil
}

// do wraps a single SDK call with retry, metrics, and structured logging.
func (c *Client) do(ctx context.Context, operation string, call func() error) error {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("operation", operation).
		Msg("Executing directory request")

	retryErr := retryWithBackoff(ctx, func() error {
		err := call()
		if err != nil {
			errClass := classifyError(err)
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(operation, "error").Inc()

			c.logger.Warn().
				Err(err).
				Str("operation", operation).
				Str("error_class", string(errClass)).
				Msg("Directory request error")
			return err
		}

		requestsTotal.WithLabelValues(operation, "ok").Inc()
		return nil
	}, classifyError)

	if retryErr != nil {
		return &DirectoryError{
			Operation:  operation,
			ErrorClass: classifyError(retryErr),
			Message:    "request failed",
			Err:        retryErr,
		}
	}

	return nil
}

// classifyError categorizes an error for observability and retry handling.
func classifyError(err error) ErrorClass {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return ErrorClassNetwork
	}

	switch apiErr.ErrorCode() {
	case "ThrottlingException", "TooManyRequestsException", "RequestLimitExceeded":
		return ErrorClassThrottle
	case "InternalServerException", "InternalFailure", "ServiceUnavailable":
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// primaryEmail picks the email flagged primary, falling back to the first one.
func primaryEmail(emails []idstypes.Email) string {
	for _, e := range emails {
		if e.Primary {
			return aws.ToString(e.Value)
		}
	}
	if len(emails) > 0 {
		return aws.ToString(emails[0].Value)
	}
	return ""
}
