package repositories

// SDKVersionConstant is the SDK version this tool ships with. It is the default
// release version and the floor for test versions.
const SDKVersionConstant = "7.1.0"

// CanonicalOrganizationConstant owns the production repositories.
const CanonicalOrganizationConstant = "forcedotcom"
