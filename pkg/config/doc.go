// Package config defines the esdump configuration model and its loading
// pipeline.
//
// Configuration is loaded from a YAML file, defaults are applied for any
// unset fields, environment variables of the form ESDUMP_SECTION_FIELD
// override file values, and the result is validated before use. Command-line
// flags are applied last by the cmd layer and always win.
//
// Example configuration:
//
//	elasticsearch:
//	  address: http://localhost:9200
//	  username: elastic
//	  password: changeme
//	  timeout: 60s
//	  max_retries: 3
//	export:
//	  batch_size: 500
//	  keep_alive: 1m
//	  output: ""
//	  history_db: ""
//	schedule:
//	  cron: "0 3 * * *"
//	  output_dir: /var/backups/es
//	  metrics_listen: :9108
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    enabled: true
//	    namespace: esdump
package config
