package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/telecomsupply/pkg/api"
)

const (
	// DashboardServiceName is the fully-qualified name of the DashboardService service.
	DashboardServiceName = "telecomsupply.v1.DashboardService"
)

const (
	DashboardServiceLoadProcedure                = "/telecomsupply.v1.DashboardService/Load"
	DashboardServiceGetStatsProcedure            = "/telecomsupply.v1.DashboardService/GetStats"
	DashboardServiceSearchClientsProcedure       = "/telecomsupply.v1.DashboardService/SearchClients"
	DashboardServiceListInvoicesProcedure        = "/telecomsupply.v1.DashboardService/ListInvoices"
	DashboardServiceCreateInvoiceProcedure       = "/telecomsupply.v1.DashboardService/CreateInvoice"
	DashboardServiceUpdateInvoiceProcedure       = "/telecomsupply.v1.DashboardService/UpdateInvoice"
	DashboardServiceDeleteInvoiceProcedure       = "/telecomsupply.v1.DashboardService/DeleteInvoice"
	DashboardServiceComposeNotificationProcedure = "/telecomsupply.v1.DashboardService/ComposeNotification"
	DashboardServiceSendNotificationProcedure    = "/telecomsupply.v1.DashboardService/SendNotification"
	DashboardServiceGenerateReportProcedure      = "/telecomsupply.v1.DashboardService/GenerateReport"
)

// DashboardServiceClient is a client for the telecomsupply.v1.DashboardService service.
type DashboardServiceClient interface {
	Load(context.Context, *connect.Request[api.LoadRequest]) (*connect.Response[api.LoadResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
	SearchClients(context.Context, *connect.Request[api.SearchClientsRequest]) (*connect.Response[api.SearchClientsResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error)
	UpdateInvoice(context.Context, *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	ComposeNotification(context.Context, *connect.Request[api.ComposeNotificationRequest]) (*connect.Response[api.ComposeNotificationResponse], error)
	SendNotification(context.Context, *connect.Request[api.SendNotificationRequest]) (*connect.Response[api.SendNotificationResponse], error)
	GenerateReport(context.Context, *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error)
}

// NewDashboardServiceClient constructs a client for the DashboardService.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DashboardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &dashboardServiceClient{
		load:                connect.NewClient[api.LoadRequest, api.LoadResponse](httpClient, baseURL+DashboardServiceLoadProcedure, opts...),
		getStats:            connect.NewClient[api.GetStatsRequest, api.GetStatsResponse](httpClient, baseURL+DashboardServiceGetStatsProcedure, opts...),
		searchClients:       connect.NewClient[api.SearchClientsRequest, api.SearchClientsResponse](httpClient, baseURL+DashboardServiceSearchClientsProcedure, opts...),
		listInvoices:        connect.NewClient[api.ListInvoicesRequest, api.ListInvoicesResponse](httpClient, baseURL+DashboardServiceListInvoicesProcedure, opts...),
		createInvoice:       connect.NewClient[api.CreateInvoiceRequest, api.CreateInvoiceResponse](httpClient, baseURL+DashboardServiceCreateInvoiceProcedure, opts...),
		updateInvoice:       connect.NewClient[api.UpdateInvoiceRequest, api.UpdateInvoiceResponse](httpClient, baseURL+DashboardServiceUpdateInvoiceProcedure, opts...),
		deleteInvoice:       connect.NewClient[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse](httpClient, baseURL+DashboardServiceDeleteInvoiceProcedure, opts...),
		composeNotification: connect.NewClient[api.ComposeNotificationRequest, api.ComposeNotificationResponse](httpClient, baseURL+DashboardServiceComposeNotificationProcedure, opts...),
		sendNotification:    connect.NewClient[api.SendNotificationRequest, api.SendNotificationResponse](httpClient, baseURL+DashboardServiceSendNotificationProcedure, opts...),
		generateReport:      connect.NewClient[api.GenerateReportRequest, api.GenerateReportResponse](httpClient, baseURL+DashboardServiceGenerateReportProcedure, opts...),
	}
}

type dashboardServiceClient struct {
	load                *connect.Client[api.LoadRequest, api.LoadResponse]
	getStats            *connect.Client[api.GetStatsRequest, api.GetStatsResponse]
	searchClients       *connect.Client[api.SearchClientsRequest, api.SearchClientsResponse]
	listInvoices        *connect.Client[api.ListInvoicesRequest, api.ListInvoicesResponse]
	createInvoice       *connect.Client[api.CreateInvoiceRequest, api.CreateInvoiceResponse]
	updateInvoice       *connect.Client[api.UpdateInvoiceRequest, api.UpdateInvoiceResponse]
	deleteInvoice       *connect.Client[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse]
	composeNotification *connect.Client[api.ComposeNotificationRequest, api.ComposeNotificationResponse]
	sendNotification    *connect.Client[api.SendNotificationRequest, api.SendNotificationResponse]
	generateReport      *connect.Client[api.GenerateReportRequest, api.GenerateReportResponse]
}

func (c *dashboardServiceClient) Load(ctx context.Context, req *connect.Request[api.LoadRequest]) (*connect.Response[api.LoadResponse], error) {
	return c.load.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) SearchClients(ctx context.Context, req *connect.Request[api.SearchClientsRequest]) (*connect.Response[api.SearchClientsResponse], error) {
	return c.searchClients.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	return c.listInvoices.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	return c.createInvoice.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) UpdateInvoice(ctx context.Context, req *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error) {
	return c.updateInvoice.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	return c.deleteInvoice.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) ComposeNotification(ctx context.Context, req *connect.Request[api.ComposeNotificationRequest]) (*connect.Response[api.ComposeNotificationResponse], error) {
	return c.composeNotification.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) SendNotification(ctx context.Context, req *connect.Request[api.SendNotificationRequest]) (*connect.Response[api.SendNotificationResponse], error) {
	return c.sendNotification.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) GenerateReport(ctx context.Context, req *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error) {
	return c.generateReport.CallUnary(ctx, req)
}

// DashboardServiceHandler is implemented by the DashboardService server.
type DashboardServiceHandler interface {
	Load(context.Context, *connect.Request[api.LoadRequest]) (*connect.Response[api.LoadResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
	SearchClients(context.Context, *connect.Request[api.SearchClientsRequest]) (*connect.Response[api.SearchClientsResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error)
	UpdateInvoice(context.Context, *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	ComposeNotification(context.Context, *connect.Request[api.ComposeNotificationRequest]) (*connect.Response[api.ComposeNotificationResponse], error)
	SendNotification(context.Context, *connect.Request[api.SendNotificationRequest]) (*connect.Response[api.SendNotificationResponse], error)
	GenerateReport(context.Context, *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error)
}

// NewDashboardServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	handlers := map[string]http.Handler{
		DashboardServiceLoadProcedure:                connect.NewUnaryHandler(DashboardServiceLoadProcedure, svc.Load, opts...),
		DashboardServiceGetStatsProcedure:            connect.NewUnaryHandler(DashboardServiceGetStatsProcedure, svc.GetStats, opts...),
		DashboardServiceSearchClientsProcedure:       connect.NewUnaryHandler(DashboardServiceSearchClientsProcedure, svc.SearchClients, opts...),
		DashboardServiceListInvoicesProcedure:        connect.NewUnaryHandler(DashboardServiceListInvoicesProcedure, svc.ListInvoices, opts...),
		DashboardServiceCreateInvoiceProcedure:       connect.NewUnaryHandler(DashboardServiceCreateInvoiceProcedure, svc.CreateInvoice, opts...),
		DashboardServiceUpdateInvoiceProcedure:       connect.NewUnaryHandler(DashboardServiceUpdateInvoiceProcedure, svc.UpdateInvoice, opts...),
		DashboardServiceDeleteInvoiceProcedure:       connect.NewUnaryHandler(DashboardServiceDeleteInvoiceProcedure, svc.DeleteInvoice, opts...),
		DashboardServiceComposeNotificationProcedure: connect.NewUnaryHandler(DashboardServiceComposeNotificationProcedure, svc.ComposeNotification, opts...),
		DashboardServiceSendNotificationProcedure:    connect.NewUnaryHandler(DashboardServiceSendNotificationProcedure, svc.SendNotification, opts...),
		DashboardServiceGenerateReportProcedure:      connect.NewUnaryHandler(DashboardServiceGenerateReportProcedure, svc.GenerateReport, opts...),
	}

	return "/" + DashboardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
