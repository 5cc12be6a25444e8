package codec

// jetNames lists the primitive operations a program may invoke. A jet is
// encoded as its 1-based position in this table, so entries are only ever
// appended.
var jetNames = []string{
	"verify",
	"low_1", "low_8", "low_16", "low_32", "low_64",
	"high_1", "high_8", "high_16", "high_32", "high_64",
	"complement_1", "complement_8", "complement_16", "complement_32", "complement_64",
	"and_1", "and_8", "and_16", "and_32", "and_64",
	"or_1", "or_8", "or_16", "or_32", "or_64",
	"xor_1", "xor_8", "xor_16", "xor_32", "xor_64",
	"eq_1", "eq_8", "eq_16", "eq_32", "eq_64", "eq_256",
	"add_8", "add_16", "add_32", "add_64",
	"subtract_8", "subtract_16", "subtract_32", "subtract_64",
	"multiply_8", "multiply_16", "multiply_32", "multiply_64",
	"le_8", "le_16", "le_32", "le_64",
	"lt_8", "lt_16", "lt_32", "lt_64",
	"sha_256_iv",
	"sha_256_block",
	"sha_256_ctx_8_init",
	"sha_256_ctx_8_add_1", "sha_256_ctx_8_add_32", "sha_256_ctx_8_add_64",
	"sha_256_ctx_8_finalize",
	"bip_0340_verify",
	"check_sig_verify",
	"check_lock_height",
	"check_lock_time",
	"lock_time",
	"version",
	"current_index",
	"num_inputs",
	"num_outputs",
	"sig_all_hash",
	"tx_hash",
}

var jetCodes = func() map[string]uint64 {
	m := make(map[string]uint64, len(jetNames))
	for i, name := range jetNames {
		m[name] = uint64(i + 1)
	}
	return m
}()

// JetNames returns the names of the known jets in code order.
func JetNames() []string {
	out := make([]string, len(jetNames))
	copy(out, jetNames)
	return out
}

// IsJet reports whether name is a known jet.
func IsJet(name string) bool {
	_, ok := jetCodes[name]
	return ok
}
