/*
Package gconf provides a toolset for managing an extension configuration.

Each extension keeps a single configuration object in the store, under a key
derived from the extension name. The object is loaded from the genesis
"conf" section and read by handlers whenever they need it.
*/
package gconf
