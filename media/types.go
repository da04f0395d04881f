// media/types.go
package media

type AssetType string

const (
	AssetTypePhoto   AssetType = "photo"
	AssetTypeForm    AssetType = "form"
	AssetTypeUnknown AssetType = "unknown"
)
