//go:build integration

package testutil

// SampleDump is a small configuration dump with one entity of each kind.
const SampleDump = `services sp managed_objects add "Cust1"
services sp managed_objects edit "Cust1" family set customer
services sp managed_objects edit "Cust1" tags add "gold"
services sp managed_objects edit "Cust1" match set peer_as 65001
services sp auto-config interface rules add "uplinks"
services sp auto-config interface rules edit "uplinks" precedence set 10
services sp auto-config interface rules edit "uplinks" action type enable
services sp auto-config interface rules edit "uplinks" type set peer
`

// SampleHosts are appliance names used when seeding several snapshots.
var SampleHosts = []string{"sp-leader", "sp-east", "sp-west"}
