package routes

const (
	// Health
	Health = "/health"

	// Scope-of-work endpoints
	ScopesBase          = "/api/v1/scopes"
	ScopeByID           = "/api/v1/scopes/{scopeId}"
	ScopeArchive        = "/api/v1/scopes/{scopeId}/archive"
	ScopeClone          = "/api/v1/scopes/{scopeId}/clone"
	ScopeProperties     = "/api/v1/scopes/{scopeId}/properties"
	ScopePropertyByID   = "/api/v1/scopes/{scopeId}/properties/{propertyId}"
	ScopeVersions       = "/api/v1/scopes/{scopeId}/versions"
	ScopeVersionsExport = "/api/v1/scopes/{scopeId}/versions/export"
	ScopeDraft          = "/api/v1/scopes/draft"

	// Version endpoints
	DocumentSave    = "/api/v1/documents/save"
	VersionByID     = "/api/v1/versions/{versionId}"
	VersionDownload = "/api/v1/versions/{versionId}/download"

	// Vendor endpoints
	VendorsBase            = "/api/v1/vendors"
	VendorByID             = "/api/v1/vendors/{vendorId}"
	VendorAreas            = "/api/v1/vendors/{vendorId}/areas"
	VendorAreaByID         = "/api/v1/vendors/{vendorId}/areas/{areaId}"
	VendorContractsExport  = "/api/v1/vendors/{vendorId}/contracts/export"
	PropertyVendorMatches  = "/api/v1/properties/{propertyId}/vendor-matches"
	PropertyContractsByID  = "/api/v1/properties/{propertyId}/contracts"

	// RFP endpoints
	RFPsBase   = "/api/v1/rfps"
	RFPByID    = "/api/v1/rfps/{rfpId}"
	RFPPublish = "/api/v1/rfps/{rfpId}/publish"
	RFPClose   = "/api/v1/rfps/{rfpId}/close"

	// Contract endpoints
	ContractsBase     = "/api/v1/contracts"
	ContractByID      = "/api/v1/contracts/{contractId}"
	ContractTerminate = "/api/v1/contracts/{contractId}/terminate"
)
