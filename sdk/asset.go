package sdk

type Asset string

const (
	AssetHive Asset = "hive"
	AssetHbd  Asset = "hbd"
	AssetTez  Asset = "xtz"
)

// String returns the raw ticker string for logging or host calls.
// Example payload: sdk.AssetHive.String()
func (a Asset) String() string {
	return string(a)
}

// IsValid reports whether the ledger knows the asset.
func (a Asset) IsValid() bool {
	switch a {
	case AssetHive, AssetHbd, AssetTez:
		return true
	}
	return false
}
