package host

import (
	"bufio"
	"strconv"
	"strings"
)

// defaultUIDMin is used when /etc/login.defs is missing or has no UID_MIN.
const defaultUIDMin = 1000

// parsePasswdLine parses one /etc/passwd (or `getent passwd`) line.
func parsePasswdLine(line string) (UserInfo, bool) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) < 7 {
		return UserInfo{}, false
	}
	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return UserInfo{}, false
	}
	gid, err := strconv.Atoi(fields[3])
	if err != nil {
		return UserInfo{}, false
	}
	return UserInfo{
		Name:   fields[0],
		Exists: true,
		UID:    uid,
		GID:    gid,
		Home:   fields[5],
		Shell:  fields[6],
	}, true
}

// lookupPasswd finds a user by name in passwd-format content.
func lookupPasswd(content, name string) (UserInfo, bool) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, name+":") {
			continue
		}
		if u, ok := parsePasswdLine(line); ok {
			return u, true
		}
	}
	return UserInfo{}, false
}

// idNames maps numeric ids to names from passwd- or group-format content.
// Both formats carry the name in field 0 and the id in field 2.
func idNames(content string) map[int]string {
	names := make(map[int]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 3 {
			continue
		}
		id, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		if _, seen := names[id]; !seen {
			names[id] = fields[0]
		}
	}
	return names
}

// parseUIDMin reads UID_MIN from login.defs content.
func parseUIDMin(content string) int {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "UID_MIN" {
			continue
		}
		if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
			return v
		}
	}
	return defaultUIDMin
}

func nameOrID(names map[int]string, id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	return strconv.Itoa(id)
}
