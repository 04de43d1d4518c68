package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	// Plan enumeration
	CodePlanExecError  Code = "PLAN_EXEC_ERROR"
	CodePlanParseError Code = "PLAN_PARSE_ERROR"

	// Backend / state discovery
	CodeBackendParseError Code = "BACKEND_PARSE_ERROR"
	CodeStateProbeError   Code = "STATE_PROBE_ERROR"

	// Existence probing
	CodePlatformAPIError  Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError Code = "PLATFORM_AUTH_ERROR"
	CodeProbeTimeout      Code = "PROBE_TIMEOUT"
	CodeUnsupportedKind   Code = "UNSUPPORTED_RESOURCE_KIND"

	// Gate outcomes
	CodeOrphanedResources Code = "ORPHANED_RESOURCES"
	CodeUnverifiedProbes  Code = "UNVERIFIED_PROBES"
)

func (c Code) String() string {
	return string(c)
}
