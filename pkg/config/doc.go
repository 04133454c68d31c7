/*
Package config loads the optional per-project defaults for dab.

	            +-------------+
	            |   Config    |
	            | (Defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|    HCL    | |  YAML   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Lets a project pin the flags it always wants (public modules, header insertion)
- Opts into removing the temp file when a root file patch fails
- Sets the log level

🔄 Flow:
1. Discover looks for .dab.hcl, .dab.yaml, .dab.yml, .dab.json in the project directory
2. The first one found is parsed by the parser registered for its extension
3. Validate fills defaults and rejects bad values
4. Command line flags are OR-ed on top of the file values

A project without a config file gets Default().
*/
package config
