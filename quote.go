package main

// appendQuoted writes s as a double-quoted literal the host can read back
func appendQuoted(b *outputBuffer, s string) error {
	if err := b.reserve(len(s) + 2); err != nil {
		return err
	}
	if err := b.appendByte('"'); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		var err error
		switch c := s[i]; c {
		case '"', '\\':
			if err = b.appendByte('\\'); err == nil {
				err = b.appendByte(c)
			}
		case '\n':
			err = b.appendString(`\n`)
		case '\r':
			err = b.appendString(`\r`)
		case 0:
			err = b.appendString(`\000`)
		default:
			err = b.appendByte(c)
		}
		if err != nil {
			return err
		}
	}
	return b.appendByte('"')
}
