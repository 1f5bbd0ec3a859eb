/*
Package config manages configuration parsing and validation for ftboot.

	            +-------------+
	            |   Config    |
	            | (defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Names the remote data directory (owner, repo, path)
- Lists the local candidate paths checked before downloading
- Carries the package source used by the setup step
- Carries the notebook display defaults

🔄 Flow:
1. Start from Default()
2. Overlay the values found in the file (format picked by extension)
3. Validate fills anything left empty and rejects unusable values

📝 Every key is optional. A missing config file is not an error when
loaded through LoadOrDefault.

🔍 Example:

	data:
	  owner: Fibertree-Project
	  repo: fibertree-notebooks
	  path: data
	  candidates: ["../../data", "../data", "./data"]
	  ignore: ["*.md"]
	display:
	  style: tree+uncompressed
	  animation: spacetime

HCL files may read the environment through env.NAME:

	github {
	  token = env.GITHUB_TOKEN
	}
*/
package config
