package rpc

// methodAPIs maps RPC method names to the api namespace the node exposes them
// under. Graphene nodes route "call" requests by namespace, so an unknown
// method can be rejected locally before a round trip is wasted. The table can
// be extended at startup with RegisterMethod; it must not be mutated after
// the first Call.
var methodAPIs = map[string]string{
	// database_api
	"get_config":                       "database_api",
	"get_dynamic_global_properties":    "database_api",
	"get_chain_properties":             "database_api",
	"get_block":                        "database_api",
	"get_block_header":                 "database_api",
	"get_accounts":                     "database_api",
	"lookup_accounts":                  "database_api",
	"lookup_account_names":             "database_api",
	"get_account_count":                "database_api",
	"get_hardfork_version":             "database_api",
	"get_next_scheduled_hardfork":      "database_api",
	"get_proposed_transactions":        "database_api",
	"get_withdraw_vesting_routes":      "database_api",
	"get_vesting_delegations":          "database_api",
	"get_expiring_vesting_delegations": "database_api",
	"get_escrow":                       "database_api",
	"get_owner_history":                "database_api",
	"get_recovery_request":             "database_api",
	"get_potential_signatures":         "database_api",
	"get_required_signatures":          "database_api",
	"get_transaction_hex":              "database_api",
	"verify_authority":                 "database_api",
	"verify_account_authority":         "database_api",

	// network_broadcast_api
	"broadcast_transaction":             "network_broadcast_api",
	"broadcast_transaction_synchronous": "network_broadcast_api",
	"broadcast_block":                   "network_broadcast_api",

	// account_history
	"get_account_history": "account_history",

	// operation_history
	"get_ops_in_block": "operation_history",
	"get_transaction":  "operation_history",

	// witness_api
	"get_witnesses":                 "witness_api",
	"get_witness_by_account":        "witness_api",
	"get_witnesses_by_counted_vote": "witness_api",
	"get_witness_count":             "witness_api",
	"lookup_witness_accounts":       "witness_api",

	// committee_api
	"get_committee_request":        "committee_api",
	"get_committee_requests_list":  "committee_api",
	"get_committee_requests_count": "committee_api",

	// invite_api
	"get_invites_list":  "invite_api",
	"get_invite_by_id":  "invite_api",
	"get_invite_by_key": "invite_api",

	// paid_subscription_api
	"get_paid_subscriptions":          "paid_subscription_api",
	"get_paid_subscription_options":   "paid_subscription_api",
	"get_paid_subscription_status":    "paid_subscription_api",
	"get_active_paid_subscriptions":   "paid_subscription_api",
	"get_inactive_paid_subscriptions": "paid_subscription_api",

	// custom_protocol_api
	"get_account_custom_protocol_sequence": "custom_protocol_api",
}

// APIForMethod resolves the api namespace for a method name.
func APIForMethod(method string) (string, bool) {
	api, ok := methodAPIs[method]
	return api, ok
}

// RegisterMethod adds or overrides a method→namespace mapping. Call it during
// startup only; the table is read without locking afterwards.
func RegisterMethod(method, api string) {
	methodAPIs[method] = api
}
