// Package registry manages config.json, the list of profile repositories
// and the name of the active profile.
//
// The file looks like:
//
//	{
//	  "config": {"profileVersionCheck": true, "activeProfile": "work"},
//	  "repositories": [{"name": "acme-profiles", "uri": "...", "localPath": "..."}]
//	}
//
// Reads go through gjson and writes through sjson, so keys this package
// does not know about survive a rewrite.
package registry
