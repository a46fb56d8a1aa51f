package grpc

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "accounts.v1.AccountService"

const (
	methodCreateAccount = "/" + serviceName + "/CreateAccount"
	methodGetAccount    = "/" + serviceName + "/GetAccount"
	methodTransfer      = "/" + serviceName + "/Transfer"
	methodResetAccounts = "/" + serviceName + "/ResetAccounts"
)

type CreateAccountRequest struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type GetAccountRequest struct {
	AccountID string `json:"account_id"`
}

type Account struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	TransferID  string          `json:"transfer_id"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

type ResetAccountsRequest struct{}

type ResetAccountsResponse struct{}

type AccountServiceServer interface {
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*Account, error)
	GetAccount(ctx context.Context, req *GetAccountRequest) (*Account, error)
	Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error)
	ResetAccounts(ctx context.Context, req *ResetAccountsRequest) (*ResetAccountsResponse, error)
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unaryHandler(methodCreateAccount, AccountServiceServer.CreateAccount)},
		{MethodName: "GetAccount", Handler: unaryHandler(methodGetAccount, AccountServiceServer.GetAccount)},
		{MethodName: "Transfer", Handler: unaryHandler(methodTransfer, AccountServiceServer.Transfer)},
		{MethodName: "ResetAccounts", Handler: unaryHandler(methodResetAccounts, AccountServiceServer.ResetAccounts)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts/v1/accounts.json",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AccountServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls AccountService over an existing connection using the JSON
// codec.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to addr owned by the returned Client.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, conn: conn}, nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	out := new(Account)
	if err := c.invoke(ctx, methodCreateAccount, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	out := new(Account)
	if err := c.invoke(ctx, methodGetAccount, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	out := new(TransferResponse)
	if err := c.invoke(ctx, methodTransfer, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ResetAccounts(ctx context.Context, opts ...grpc.CallOption) error {
	return c.invoke(ctx, methodResetAccounts, &ResetAccountsRequest{}, new(ResetAccountsResponse), opts)
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
