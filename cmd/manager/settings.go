/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */
package main

import (
	"fmt"
	"strconv"
)

// providerSettings collects the flags that apply to the named backend.
func providerSettings(name, domain string) (map[string]string, error) {
	retries := strconv.Itoa(*httpRetries)

	switch name {
	case "cloudflare":
		return map[string]string{
			"api_token": *cloudflareToken,
			"retries":   retries,
		}, nil
	case "powerdns":
		return map[string]string{
			"url":       *pdnsURL,
			"api_key":   *pdnsAPIKey,
			"server_id": *pdnsServerID,
			"retries":   retries,
			"insecure":  strconv.FormatBool(*pdnsInsecure),
		}, nil
	case "memory":
		return map[string]string{"zone": domain}, nil
	default:
		return nil, fmt.Errorf("no settings known for provider %q", name)
	}
}
