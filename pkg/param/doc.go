// Package param provides typed parameter values and the named parameter
// container used for plugin configuration.
//
// # Overview
//
// A Value is a tagged union of int, float, double, string, color, palette,
// generic object and collection payloads. Reference counted payloads are
// shared: the setter takes a reference, Unset drops it and each object getter
// returns a new reference the caller must release.
//
// A Container keeps Entry records (declaration plus Value) in insertion
// order on a list.List. Lookups match the first entry with the exact name.
// Removing an entry or destroying the container releases the entry values.
//
// # Usage Example
//
//	params := param.NewContainer(64)
//	defer params.Unref()
//
//	params.AddMany(
//		param.Info{Name: "width", Type: param.TypeInt},
//		param.Info{Name: "height", Type: param.TypeInt},
//	)
//
//	var v param.Value
//	v.SetInt(800)
//	params.SetParamValue("width", &v)
//	v.Unset()
//
//	width, _ := params.ParamValue("width")
//	n, err := width.Int()
//
// # Manifests
//
// Parameter declarations and defaults can be kept in YAML:
//
//	params:
//	  - name: width
//	    type: int
//	    default: 800
//	  - name: background
//	    type: color
//	    default: "#102030"
//
// LoadManifest, Manifest.Container and Manifest.Apply turn a manifest into a
// populated container; ManifestFromContainer and SaveManifest go the other
// way. A Watcher reloads a manifest file when it changes.
//
// # Related Packages
//
//   - pkg/list: Entry storage
//   - pkg/color: Color and palette payloads
//   - pkg/object: Reference counting
package param
