// Package integration contains the Integration bounded context.
// This context manages the Falabella Seller Center marketplace integration.
//
// Key concepts:
//   - SellerCenterClient: Port interface for the Seller Center API (products, orders, feeds, webhooks)
//   - CountryContext: Operator code and endpoint derived from a seller's country
//   - Feed: Handle of an asynchronous bulk operation reported by the platform
//   - FeedRecord: Locally persisted status of a feed, upserted by feed id
//   - GlobalProduct / BusinessUnit: Product submission shapes sent to the platform
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
