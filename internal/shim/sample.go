package shim

// DefaultFile is the settings document path used when -f is omitted.
const DefaultFile = "hprcu.xml"

// Sample is the settings dump produced by read mode. It is written verbatim; the
// mixed attribute quoting matches the vendor's own sample and is kept as is.
const Sample = `<?xml version="1.0" encoding="UTF-8"?>
<hprcu>
  <information>
    <product_name>ProLiant DL380 Gen9</product_name>
    <system_rom_family>P89</system_rom_family>
    <system_rom_date>10/21/2019</system_rom_date>
  </information>
  <feature feature_id='176' selected_option_id='2' default_option_id='1' feature_type='option'>
    <feature_name>Intel(R) Hyperthreading Options</feature_name>
    <option option_id='1'><option_name>Enabled</option_name></option>
    <option option_id='2'><option_name>Disabled</option_name></option>
  </feature>
  <feature feature_id="100" feature_type="string">
    <feature_name>Server Name</feature_name>
    <feature_value>mock-server</feature_value>
  </feature>
  <feature feature_id='212' selected_option_id='1' sys_default_option_id="1" feature_type='option'>
    <feature_name>Processor Power and Utilization Monitoring</feature_name>
    <option option_id="1"><option_name>Enabled</option_name></option>
    <option option_id="2"><option_name>Disabled</option_name></option>
  </feature>
</hprcu>`
