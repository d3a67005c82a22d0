package scan

// common tcp services, from https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv
// the full table can be generated with: go run ./tools/update-ports.go
var knownPorts = map[int]string{
	1:    "tcpmux",
	7:    "echo",
	9:    "discard",
	13:   "daytime",
	17:   "qotd",
	19:   "chargen",
	20:   "ftp-data",
	21:   "ftp",
	22:   "ssh",
	23:   "telnet",
	25:   "smtp",
	37:   "time",
	43:   "nicname",
	49:   "tacacs",
	53:   "domain",
	67:   "bootps",
	68:   "bootpc",
	69:   "tftp",
	70:   "gopher",
	79:   "finger",
	80:   "http",
	88:   "kerberos",
	102:  "iso-tsap",
	110:  "pop3",
	111:  "sunrpc",
	113:  "auth",
	119:  "nntp",
	123:  "ntp",
	135:  "epmap",
	137:  "netbios-ns",
	138:  "netbios-dgm",
	139:  "netbios-ssn",
	143:  "imap",
	161:  "snmp",
	162:  "snmptrap",
	179:  "bgp",
	194:  "irc",
	389:  "ldap",
	427:  "svrloc",
	443:  "https",
	445:  "microsoft-ds",
	464:  "kpasswd",
	465:  "submissions",
	497:  "retrospect",
	500:  "isakmp",
	512:  "exec",
	513:  "login",
	514:  "shell",
	515:  "printer",
	520:  "efs",
	530:  "courier",
	543:  "klogin",
	544:  "kshell",
	548:  "afpovertcp",
	554:  "rtsp",
	587:  "submission",
	631:  "ipp",
	636:  "ldaps",
	646:  "ldp",
	873:  "rsync",
	902:  "ideafarm-door",
	989:  "ftps-data",
	990:  "ftps",
	992:  "telnets",
	993:  "imaps",
	995:  "pop3s",
	1025: "blackjack",
	1433: "ms-sql-s",
	3306: "mysql",
	3389: "ms-wbt-server",
	5432: "postgresql",
	5900: "rfb",
	6379: "redis",
	8080: "http-alt",
	8443: "pcsync-https",
}
